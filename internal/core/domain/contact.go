// Package domain defines the core domain models for contacts-cli.
package domain

// Contact is a contact record owned by a user.
type Contact struct {
	ID     string `json:"id,omitempty" yaml:"id,omitempty"`
	UserID string `json:"usuarioId,omitempty" yaml:"user_id,omitempty" table:"wide"`
	Name   string `json:"name" yaml:"name"`
	Email  string `json:"email,omitempty" yaml:"email,omitempty"`
	Phone  string `json:"phone,omitempty" yaml:"phone,omitempty"`
}

// Merge returns a copy of c with every non-empty field of the form applied.
// Recognized form keys are name, email and phone.
func (c Contact) Merge(form map[string]string) Contact {
	if v := form["name"]; v != "" {
		c.Name = v
	}
	if v := form["email"]; v != "" {
		c.Email = v
	}
	if v := form["phone"]; v != "" {
		c.Phone = v
	}
	return c
}

// User is the payload used to register a new account.
type User struct {
	Name     string `json:"name"`
	User     string `json:"user"`
	Password string `json:"password"`
}
