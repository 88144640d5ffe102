package mongostore

import (
	"time"

	"hostelhub/internal/domain"
)

// Document shapes kept separate from domain entities so bson layout can
// evolve without touching the domain.

type roomDoc struct {
	ID               string   `bson:"_id"`
	Number           string   `bson:"number"`
	Beds             int      `bson:"beds"`
	Type             string   `bson:"type"`
	Floor            int      `bson:"floor"`
	SelfContained    bool     `bson:"selfContained"`
	Balcony          bool     `bson:"balcony"`
	Available        bool     `bson:"available"`
	BasePrice        float64  `bson:"basePrice"`
	SeasonalPrice    *float64 `bson:"seasonalPrice,omitempty"`
	UnderMaintenance bool     `bson:"underMaintenance,omitempty"`
	Amenities        []string `bson:"amenities,omitempty"`
}

func toRoomDoc(r domain.Room) roomDoc {
	return roomDoc{
		ID:               r.ID,
		Number:           r.Number,
		Beds:             r.Beds,
		Type:             string(r.Type),
		Floor:            r.Floor,
		SelfContained:    r.SelfContained,
		Balcony:          r.Balcony,
		Available:        r.Available,
		BasePrice:        r.BasePrice,
		SeasonalPrice:    r.SeasonalPrice,
		UnderMaintenance: r.UnderMaintenance,
		Amenities:        r.Amenities,
	}
}

func (d roomDoc) toDomain() domain.Room {
	return domain.Room{
		ID:               d.ID,
		Number:           d.Number,
		Beds:             d.Beds,
		Type:             domain.RoomType(d.Type),
		Floor:            d.Floor,
		SelfContained:    d.SelfContained,
		Balcony:          d.Balcony,
		Available:        d.Available,
		BasePrice:        d.BasePrice,
		SeasonalPrice:    d.SeasonalPrice,
		UnderMaintenance: d.UnderMaintenance,
		Amenities:        d.Amenities,
	}
}

type extensionDoc struct {
	PreviousEndDate time.Time `bson:"previousEndDate"`
	NewEndDate      time.Time `bson:"newEndDate"`
	AdditionalCost  float64   `bson:"additionalCost"`
	ExtendedAt      time.Time `bson:"extendedAt"`
}

type paymentDetailsDoc struct {
	Method        string     `bson:"method,omitempty"`
	TransactionID string     `bson:"transactionId,omitempty"`
	AmountPaid    float64    `bson:"amountPaid,omitempty"`
	PaidAt        *time.Time `bson:"paidDate,omitempty"`
}

type bookingDoc struct {
	ID             string     `bson:"_id"`
	UserID         string     `bson:"userId,omitempty"` // empty = anonymous legacy booking
	Name           string     `bson:"name"`
	Course         string     `bson:"course"`
	University     string     `bson:"university"`
	CourseDuration string     `bson:"courseDuration"`
	StudentID      string     `bson:"studentId"`
	PersonalPhone  string     `bson:"personalPhone"`
	CaretakerPhone string     `bson:"caretakerPhone"`
	RoomID         string     `bson:"room"`
	StartDate      time.Time  `bson:"startDate"`
	EndDate        *time.Time `bson:"endDate,omitempty"`
	Price          float64    `bson:"price"`
	GroupSize      int        `bson:"groupSize"`
	Status         string     `bson:"status"`
	PaymentStatus  string     `bson:"paymentStatus"`

	Extensions      []extensionDoc     `bson:"extensionHistory,omitempty"`
	SpecialRequests string             `bson:"specialRequests,omitempty"`
	PaymentDetails  *paymentDetailsDoc `bson:"paymentDetails,omitempty"`
	BookedAt        time.Time          `bson:"bookingDate"`
}

func toBookingDoc(b domain.Booking) bookingDoc {
	d := bookingDoc{
		ID:              b.ID,
		Name:            b.Name,
		Course:          b.Course,
		University:      b.University,
		CourseDuration:  b.CourseDuration,
		StudentID:       b.StudentID,
		PersonalPhone:   b.PersonalPhone,
		CaretakerPhone:  b.CaretakerPhone,
		RoomID:          b.RoomID,
		StartDate:       b.StartDate,
		EndDate:         b.EndDate,
		Price:           b.Price,
		GroupSize:       b.GroupSize,
		Status:          string(b.Status),
		PaymentStatus:   string(b.PaymentStatus),
		SpecialRequests: b.SpecialRequests,
		BookedAt:        b.BookedAt,
	}
	if id, ok := b.Owner.UserID(); ok {
		d.UserID = id
	}
	for _, e := range b.Extensions {
		d.Extensions = append(d.Extensions, extensionDoc(e))
	}
	if b.PaymentDetails != nil {
		pd := paymentDetailsDoc(*b.PaymentDetails)
		d.PaymentDetails = &pd
	}
	return d
}

func (d bookingDoc) toDomain() domain.Booking {
	b := domain.Booking{
		ID:              d.ID,
		Owner:           domain.Anonymous(),
		Name:            d.Name,
		Course:          d.Course,
		University:      d.University,
		CourseDuration:  d.CourseDuration,
		StudentID:       d.StudentID,
		PersonalPhone:   d.PersonalPhone,
		CaretakerPhone:  d.CaretakerPhone,
		RoomID:          d.RoomID,
		StartDate:       d.StartDate,
		EndDate:         d.EndDate,
		Price:           d.Price,
		GroupSize:       d.GroupSize,
		Status:          domain.BookingStatus(d.Status),
		PaymentStatus:   domain.PaymentStatus(d.PaymentStatus),
		SpecialRequests: d.SpecialRequests,
		BookedAt:        d.BookedAt,
	}
	if d.UserID != "" {
		b.Owner = domain.OwnedBy(d.UserID)
	}
	for _, e := range d.Extensions {
		b.Extensions = append(b.Extensions, domain.Extension(e))
	}
	if d.PaymentDetails != nil {
		pd := domain.PaymentDetails(*d.PaymentDetails)
		b.PaymentDetails = &pd
	}
	return b
}

type userDoc struct {
	ID           string    `bson:"_id"`
	Username     string    `bson:"username"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password"`
	FullName     string    `bson:"fullName"`
	Phone        string    `bson:"phone,omitempty"`
	Role         string    `bson:"role"`
	CreatedAt    time.Time `bson:"createdAt"`
}

func toUserDoc(u domain.User) userDoc {
	return userDoc{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		FullName:     u.FullName,
		Phone:        u.Phone,
		Role:         string(u.Role),
		CreatedAt:    u.CreatedAt,
	}
}

func (d userDoc) toDomain() domain.User {
	return domain.User{
		ID:           d.ID,
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		FullName:     d.FullName,
		Phone:        d.Phone,
		Role:         domain.Role(d.Role),
		CreatedAt:    d.CreatedAt,
	}
}
