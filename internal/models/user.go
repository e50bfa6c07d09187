package models

type User struct {
	ID    int64  `db:"id" json:"id"`
	Name  string `db:"name" json:"name"`
	Email string `db:"email" json:"email"`
}

// UserPatch carries a partial update; nil fields are left unchanged.
type UserPatch struct {
	ID    int64   `json:"-"`
	Name  *string `json:"name" validate:"omitempty,min=1,max=255"`
	Email *string `json:"email" validate:"omitempty,email,max=512"`
}

func (p UserPatch) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
}

// UserShort is the booker projection embedded into booking views.
type UserShort struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
