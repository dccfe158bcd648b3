package crm

type contactPayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

type dealPayload struct {
	Title     string   `json:"title"`
	Pipeline  string   `json:"pipeline"`
	ContactID int      `json:"contact_id"`
	Tags      []string `json:"tags,omitempty"`
	Notes     string   `json:"notes,omitempty"`
}
