package core

// ConfirmFunc asks the actor to confirm a destructive operation.
type ConfirmFunc func(prompt string) bool

// AlwaysConfirm accepts every prompt.
func AlwaysConfirm(string) bool { return true }

// NeverConfirm rejects every prompt.
func NeverConfirm(string) bool { return false }

// Confirmed reports whether `confirm` accepted `prompt`. A nil ConfirmFunc never confirms.
func Confirmed(confirm ConfirmFunc, prompt string) bool {
	if confirm == nil {
		return false
	}
	return confirm(prompt)
}
