// Package i18n holds the user-facing message catalog and locale helpers.
// German is the default and fallback language.
package i18n

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

const (
	MsgNoNumber          = "No number"
	MsgNoDescription     = "No description"
	MsgNoBalance         = "No balance"
	MsgLoadingData       = "Loading data..."
	MsgLoadingBalance    = "Loading balance..."
	MsgNoSession         = "Not signed in"
	MsgNoIdentifier      = "No account number in session"
	MsgDemoDescription   = "Demo account (service unreachable)"
	MsgNoTransactions    = "No transactions"
	MsgDepositOK         = "Deposit successful"
	MsgWithdrawalOK      = "Withdrawal successful"
	MsgDepositStatus     = "Deposit failed (status %d)"
	MsgWithdrawalStatus  = "Withdrawal failed (status %d)"
	MsgDepositNoService  = "Deposit failed: service unreachable"
	MsgWithdrawNoService = "Withdrawal failed: service unreachable"
	MsgInvalidAmount     = "Please enter a valid amount (greater than 0)"
	MsgMissingFields     = "Please fill in all required fields"
	MsgInvalidLogin      = "Invalid credentials"
	MsgPasswordMismatch  = "Passwords do not match"
	MsgLoginOK           = "Login successful"
	MsgUserNotFound      = "User not found"
	MsgUnavailable       = "Service unavailable, please try again later"
	MsgAPIError          = "API error %d: %s"
	MsgNoAccountForUser  = "No account number for this user"
	MsgRegisterOK        = "Registration successful! You can now sign in."
	MsgRegisterFailed    = "Registration failed (%s)"
	MsgCheckingAccount   = "Checking account"
)

type translation struct{ de, en, vi string }

var entries = map[string]translation{
	MsgNoNumber:          {"Keine Nummer", "No number", "Không có số"},
	MsgNoDescription:     {"Keine Beschreibung", "No description", "Không có mô tả"},
	MsgNoBalance:         {"Kein Saldo", "No balance", "Không có số dư"},
	MsgLoadingData:       {"Lade Daten...", "Loading data...", "Đang tải dữ liệu..."},
	MsgLoadingBalance:    {"Lade Saldo...", "Loading balance...", "Đang tải số dư..."},
	MsgNoSession:         {"Nicht angemeldet", "Not signed in", "Chưa đăng nhập"},
	MsgNoIdentifier:      {"Keine Kontonummer in der Sitzung", "No account number in session", "Không có số tài khoản trong phiên"},
	MsgDemoDescription:   {"Demo-Konto (API nicht erreichbar)", "Demo account (service unreachable)", "Tài khoản demo (không kết nối được dịch vụ)"},
	MsgNoTransactions:    {"Keine Transaktionen vorhanden", "No transactions", "Không có giao dịch"},
	MsgDepositOK:         {"Einzahlung erfolgreich", "Deposit successful", "Nạp tiền thành công"},
	MsgWithdrawalOK:      {"Auszahlung erfolgreich", "Withdrawal successful", "Rút tiền thành công"},
	MsgDepositStatus:     {"Einzahlung fehlgeschlagen (Status %d)", "Deposit failed (status %d)", "Nạp tiền thất bại (mã %d)"},
	MsgWithdrawalStatus:  {"Auszahlung fehlgeschlagen (Status %d)", "Withdrawal failed (status %d)", "Rút tiền thất bại (mã %d)"},
	MsgDepositNoService:  {"Einzahlung fehlgeschlagen: Dienst nicht erreichbar", "Deposit failed: service unreachable", "Nạp tiền thất bại: không kết nối được dịch vụ"},
	MsgWithdrawNoService: {"Auszahlung fehlgeschlagen: Dienst nicht erreichbar", "Withdrawal failed: service unreachable", "Rút tiền thất bại: không kết nối được dịch vụ"},
	MsgInvalidAmount:     {"Bitte geben Sie einen gültigen Betrag ein (größer 0)", "Please enter a valid amount (greater than 0)", "Vui lòng nhập số tiền hợp lệ (lớn hơn 0)"},
	MsgMissingFields:     {"Bitte alle Pflichtfelder ausfüllen", "Please fill in all required fields", "Vui lòng điền đầy đủ các trường bắt buộc"},
	MsgInvalidLogin:      {"Ungültige Anmeldedaten", "Invalid credentials", "Thông tin đăng nhập không hợp lệ"},
	MsgPasswordMismatch:  {"Passwörter stimmen nicht überein", "Passwords do not match", "Mật khẩu không khớp"},
	MsgLoginOK:           {"Anmeldung erfolgreich", "Login successful", "Đăng nhập thành công"},
	MsgUserNotFound:      {"Benutzer nicht gefunden", "User not found", "Không tìm thấy người dùng"},
	MsgUnavailable:       {"Dienst nicht verfügbar, bitte später erneut versuchen", "Service unavailable, please try again later", "Dịch vụ không khả dụng, vui lòng thử lại sau"},
	MsgAPIError:          {"API-Fehler %d: %s", "API error %d: %s", "Lỗi API %d: %s"},
	MsgNoAccountForUser:  {"Keine Kontonummer für diesen Benutzer", "No account number for this user", "Không có số tài khoản cho người dùng này"},
	MsgRegisterOK:        {"Registrierung erfolgreich! Sie können sich jetzt anmelden.", "Registration successful! You can now sign in.", "Đăng ký thành công! Bạn có thể đăng nhập ngay bây giờ."},
	MsgRegisterFailed:    {"Registrierung fehlgeschlagen (%s)", "Registration failed (%s)", "Đăng ký thất bại (%s)"},
	MsgCheckingAccount:   {"Girokonto", "Checking account", "Tài khoản thanh toán"},
}

var (
	supported = []language.Tag{language.German, language.English, language.Vietnamese}
	matcher   = language.NewMatcher(supported)
	cat       = build()
)

func build() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.German))
	for key, tr := range entries {
		must(b.SetString(language.German, key, tr.de))
		must(b.SetString(language.English, key, tr.en))
		must(b.SetString(language.Vietnamese, key, tr.vi))
	}
	return b
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// Match picks the supported language closest to locale ("de", "en-US", ...).
func Match(locale string) language.Tag {
	if locale == "" {
		return language.German
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return language.German
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return language.German
	}
	return supported[idx]
}

// NewPrinter returns a printer bound to the message catalog.
func NewPrinter(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(cat))
}

// Default is the German printer used when a component gets none.
func Default() *message.Printer {
	return NewPrinter(language.German)
}

// FormatDate renders the calendar date the way each language shows short
// dates: de 2.1.2006, vi 2/1/2006, en 1/2/2006.
func FormatDate(tag language.Tag, t time.Time) string {
	base, _ := tag.Base()
	switch base.String() {
	case "de":
		return t.Format("2.1.2006")
	case "vi":
		return t.Format("2/1/2006")
	default:
		return t.Format("1/2/2006")
	}
}
