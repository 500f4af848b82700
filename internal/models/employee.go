package models

// Employee is a person at a company. It starts life as a locked stub from the
// employee fetch; the contact fields are filled in, all at once, when a
// per-employee contact unlock succeeds.
type Employee struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Avatar   string `json:"ava,omitempty"`
	Title    string `json:"title"`
	LinkedIn string `json:"linkedin"`
	Company  string `json:"company"`
	Star     bool   `json:"star,omitempty"`

	// Contact fields, present only after a successful unlock.
	Location *string `json:"location,omitempty"`
	Industry *string `json:"industry,omitempty"`
	Mail     *string `json:"mail,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Work     *bool   `json:"work,omitempty"`
	Verified *bool   `json:"verified,omitempty"`
}

// ContactUnlocked reports whether every contact field is present. Contact
// data is all-or-nothing: a partially populated record never counts.
func (e Employee) ContactUnlocked() bool {
	return e.Location != nil && e.Industry != nil && e.Mail != nil &&
		e.Phone != nil && e.Work != nil && e.Verified != nil
}

// ContactUpdate is the typed partial payload returned by the contact unlock
// endpoint. It is only ever applied through MergeContact.
type ContactUpdate struct {
	Location *string `json:"location"`
	Industry *string `json:"industry"`
	Mail     *string `json:"mail"`
	Phone    *string `json:"phone"`
	Work     *bool   `json:"work"`
	Verified *bool   `json:"verified"`
}

// Complete reports whether the update carries all six contact fields.
func (u ContactUpdate) Complete() bool {
	return u.Location != nil && u.Industry != nil && u.Mail != nil &&
		u.Phone != nil && u.Work != nil && u.Verified != nil
}

// MergeContact applies a contact update to an employee, enforcing the
// all-or-nothing contract. An incomplete update is rejected with
// ErrPartialContact and the employee is returned unchanged.
func MergeContact(e Employee, u ContactUpdate) (Employee, error) {
	if !u.Complete() {
		return e, ErrPartialContact
	}
	e.Location = u.Location
	e.Industry = u.Industry
	e.Mail = u.Mail
	e.Phone = u.Phone
	e.Work = u.Work
	e.Verified = u.Verified
	return e, nil
}
