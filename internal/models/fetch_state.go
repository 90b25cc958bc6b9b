package models

// Phase is the lifecycle step of one account-data retrieval.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseSuccess
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseSuccess:
		return "success"
	case PhaseError:
		return "error"
	default:
		return "idle"
	}
}

// FetchState is a tagged union over Phase. Only the error phase carries a
// message, so "loading and failed at once" cannot be expressed.
type FetchState struct {
	phase   Phase
	message string
}

func IdleState() FetchState    { return FetchState{phase: PhaseIdle} }
func LoadingState() FetchState { return FetchState{phase: PhaseLoading} }
func SuccessState() FetchState { return FetchState{phase: PhaseSuccess} }

// ErrorState builds the error phase. message must be human readable.
func ErrorState(message string) FetchState {
	return FetchState{phase: PhaseError, message: message}
}

func (s FetchState) Phase() Phase { return s.phase }

// Message is empty unless the phase is PhaseError.
func (s FetchState) Message() string { return s.message }

func (s FetchState) IsLoading() bool { return s.phase == PhaseLoading }
func (s FetchState) IsError() bool   { return s.phase == PhaseError }

// Snapshot is the FetchState/AccountView/TransactionList triple owned by one
// session. Failure keeps the cause behind an error state or a demo fallback
// so callers can log or alert on it even when the view hides it.
type Snapshot struct {
	State        FetchState
	View         AccountView
	Transactions []Transaction
	Failure      error
}

// IsDemo reports whether the view holds the demo fallback dataset.
func (s Snapshot) IsDemo() bool { return s.View.SourceStatus == Demo }
