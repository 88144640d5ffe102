package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "unpaid"
	PaymentPartial PaymentStatus = "partial"
	PaymentPaid    PaymentStatus = "paid"
)

// Owner is either anonymous (legacy walk-in bookings) or tied to a user
// account. The zero value is anonymous.
type Owner struct {
	userID string
}

func Anonymous() Owner { return Owner{} }

func OwnedBy(userID string) Owner { return Owner{userID: userID} }

func (o Owner) IsAnonymous() bool { return o.userID == "" }

// UserID reports the owning user, ok=false for anonymous bookings.
func (o Owner) UserID() (string, bool) { return o.userID, o.userID != "" }

// Extension records one prolongation of a stay. PreviousEndDate is the end
// date as it was before the extension was applied.
type Extension struct {
	PreviousEndDate time.Time
	NewEndDate      time.Time
	AdditionalCost  float64
	ExtendedAt      time.Time
}

type PaymentDetails struct {
	Method        string
	TransactionID string
	AmountPaid    float64
	PaidAt        *time.Time
}

type Booking struct {
	ID    string
	Owner Owner

	// Occupant details, all required at creation.
	Name           string
	Course         string
	University     string
	CourseDuration string
	StudentID      string
	PersonalPhone  string
	CaretakerPhone string

	RoomID    string
	StartDate time.Time
	EndDate   *time.Time // nil = open-ended stay
	Price     float64
	GroupSize int

	Status        BookingStatus
	PaymentStatus PaymentStatus

	// Extensions is append-only, ordered by ExtendedAt.
	Extensions []Extension

	SpecialRequests string
	PaymentDetails  *PaymentDetails
	BookedAt        time.Time
}

// Active reports whether the booking currently holds its room.
func (b *Booking) Active() bool {
	return b.Status == BookingPending || b.Status == BookingConfirmed
}

// CanCancel reports whether cancellation is a legal transition.
func (b *Booking) CanCancel() bool { return b.Active() }

type BookingFilter struct {
	RoomID   string
	OwnerID  string
	Statuses []BookingStatus
	Payment  []PaymentStatus
}
