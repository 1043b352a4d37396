package models

// Mode selects whether actions reach the ledger or are synthesized locally.
// It is fixed at startup and shared by the write and read paths.
type Mode int

const (
	ModeLive Mode = iota
	ModeMock
)

func (m Mode) String() string {
	if m == ModeMock {
		return "mock"
	}
	return "live"
}
