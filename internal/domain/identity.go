package domain

// Identity is the verified caller of an operation. All elevated-access
// decisions go through IsAdmin so role checks live in exactly one place.
type Identity struct {
	UserID string
	Role   Role
}

func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

// Owns reports whether the identity is the booking owner. Anonymous
// bookings have no owner, so nobody but an admin may act on them.
func (i Identity) Owns(o Owner) bool {
	id, ok := o.UserID()
	return ok && id == i.UserID
}

// MayManage reports whether the identity may cancel or delete a booking
// with the given owner: the owner themselves or an admin.
func (i Identity) MayManage(o Owner) bool {
	return i.IsAdmin() || i.Owns(o)
}
