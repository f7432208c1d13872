package domain

// Identity is the authenticated caller of a request. A nil *Identity means anonymous.
type Identity struct {
	AccountID string
	Username  string
	IsStaff   bool
}

// Authenticated reports whether id refers to a signed-in account.
func (id *Identity) Authenticated() bool {
	return id != nil && id.AccountID != ""
}

// CanAccessAccount reports whether the caller may read data owned by accountID.
func (id *Identity) CanAccessAccount(accountID string) bool {
	if !id.Authenticated() {
		return false
	}
	return id.IsStaff || id.AccountID == accountID
}
