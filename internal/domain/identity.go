package domain

// Identity — пользователь, подтверждённый поставщиком удостоверений
type Identity struct {
	UID     string `json:"uid"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}
