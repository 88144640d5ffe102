package mongostore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hostelhub/internal/domain"
)

// Repo implements the room, booking and user repositories on a MongoDB
// database. Every call carries a bounded timeout; store failures surface
// as domain.ErrUnavailable so callers never hang and never mistake an
// outage for a business-rule failure.
type Repo struct {
	rooms    *mongo.Collection
	bookings *mongo.Collection
	users    *mongo.Collection
	timeout  time.Duration
}

func New(db *mongo.Database, timeout time.Duration) *Repo {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Repo{
		rooms:    db.Collection("rooms"),
		bookings: db.Collection("bookings"),
		users:    db.Collection("users"),
		timeout:  timeout,
	}
}

// EnsureIndexes creates the unique and query indexes the repositories
// rely on. Call once at startup.
func (r *Repo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	_, err := r.rooms.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "number", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return domain.Unavailable(err)
	}
	_, err = r.bookings.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "room", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "userId", Value: 1}}},
		{Keys: bson.D{{Key: "bookingDate", Value: -1}}},
	})
	if err != nil {
		return domain.Unavailable(err)
	}
	_, err = r.users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return domain.Unavailable(err)
	}
	return nil
}

func (r *Repo) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

// mapErr folds driver errors into the domain taxonomy.
func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return domain.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return domain.Conflictf("duplicate key")
	default:
		return domain.Unavailable(err)
	}
}

// ---- rooms ----

func (r *Repo) CreateRoom(ctx context.Context, room domain.Room) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	_, err := r.rooms.InsertOne(ctx, toRoomDoc(room))
	return mapErr(err)
}

func (r *Repo) UpdateRoom(ctx context.Context, room domain.Room) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	res, err := r.rooms.ReplaceOne(ctx, bson.M{"_id": room.ID}, toRoomDoc(room))
	if err != nil {
		return mapErr(err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repo) DeleteRoom(ctx context.Context, id string) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	res, err := r.rooms.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return mapErr(err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repo) SetAvailability(ctx context.Context, id string, available bool) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	res, err := r.rooms.UpdateByID(ctx, id, bson.M{"$set": bson.M{"available": available}})
	if err != nil {
		return mapErr(err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repo) GetRoom(ctx context.Context, id string) (domain.Room, error) {
	return r.findRoom(ctx, bson.M{"_id": id})
}

func (r *Repo) GetRoomByNumber(ctx context.Context, number string) (domain.Room, error) {
	return r.findRoom(ctx, bson.M{"number": number})
}

func (r *Repo) findRoom(ctx context.Context, filter bson.M) (domain.Room, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	var d roomDoc
	if err := r.rooms.FindOne(ctx, filter).Decode(&d); err != nil {
		return domain.Room{}, mapErr(err)
	}
	return d.toDomain(), nil
}

func (r *Repo) ListRooms(ctx context.Context, f domain.RoomFilter) ([]domain.Room, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	filter := bson.M{}
	if f.OnlyAvailable {
		filter["available"] = true
	}
	cur, err := r.rooms.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "number", Value: 1}}))
	if err != nil {
		return nil, mapErr(err)
	}
	defer cur.Close(ctx)

	var out []domain.Room
	for cur.Next(ctx) {
		var d roomDoc
		if err := cur.Decode(&d); err != nil {
			return nil, domain.Unavailable(err)
		}
		out = append(out, d.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, domain.Unavailable(err)
	}
	return out, nil
}

func (r *Repo) CountRooms(ctx context.Context, f domain.RoomFilter) (int64, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	filter := bson.M{}
	if f.OnlyAvailable {
		filter["available"] = true
	}
	n, err := r.rooms.CountDocuments(ctx, filter)
	if err != nil {
		return 0, mapErr(err)
	}
	return n, nil
}

// ---- bookings ----

func (r *Repo) CreateBooking(ctx context.Context, b domain.Booking) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	_, err := r.bookings.InsertOne(ctx, toBookingDoc(b))
	return mapErr(err)
}

func (r *Repo) UpdateBooking(ctx context.Context, b domain.Booking) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	res, err := r.bookings.ReplaceOne(ctx, bson.M{"_id": b.ID}, toBookingDoc(b))
	if err != nil {
		return mapErr(err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repo) DeleteBooking(ctx context.Context, id string) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	res, err := r.bookings.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return mapErr(err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repo) GetBooking(ctx context.Context, id string) (domain.Booking, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	var d bookingDoc
	if err := r.bookings.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		return domain.Booking{}, mapErr(err)
	}
	return d.toDomain(), nil
}

func (r *Repo) ListBookings(ctx context.Context, f domain.BookingFilter) ([]domain.Booking, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	filter := bson.M{}
	if f.RoomID != "" {
		filter["room"] = f.RoomID
	}
	if f.OwnerID != "" {
		filter["userId"] = f.OwnerID
	}
	if len(f.Statuses) > 0 {
		filter["status"] = bson.M{"$in": f.Statuses}
	}
	if len(f.Payment) > 0 {
		filter["paymentStatus"] = bson.M{"$in": f.Payment}
	}

	cur, err := r.bookings.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "bookingDate", Value: -1}}))
	if err != nil {
		return nil, mapErr(err)
	}
	defer cur.Close(ctx)

	var out []domain.Booking
	for cur.Next(ctx) {
		var d bookingDoc
		if err := cur.Decode(&d); err != nil {
			return nil, domain.Unavailable(err)
		}
		out = append(out, d.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, domain.Unavailable(err)
	}
	return out, nil
}

// ---- users ----

func (r *Repo) CreateUser(ctx context.Context, u domain.User) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	_, err := r.users.InsertOne(ctx, toUserDoc(u))
	return mapErr(err)
}

func (r *Repo) GetUser(ctx context.Context, id string) (domain.User, error) {
	return r.findUser(ctx, bson.M{"_id": id})
}

func (r *Repo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.findUser(ctx, bson.M{"email": email})
}

func (r *Repo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	return r.findUser(ctx, bson.M{"username": username})
}

func (r *Repo) findUser(ctx context.Context, filter bson.M) (domain.User, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	var d userDoc
	if err := r.users.FindOne(ctx, filter).Decode(&d); err != nil {
		return domain.User{}, mapErr(err)
	}
	return d.toDomain(), nil
}

func (r *Repo) ListUsers(ctx context.Context) ([]domain.User, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	cur, err := r.users.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, mapErr(err)
	}
	defer cur.Close(ctx)

	var out []domain.User
	for cur.Next(ctx) {
		var d userDoc
		if err := cur.Decode(&d); err != nil {
			return nil, domain.Unavailable(err)
		}
		out = append(out, d.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, domain.Unavailable(err)
	}
	return out, nil
}
