package adapters

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"heartlink/internal/domain"
	"heartlink/internal/domain/entity"
	authusecase "heartlink/internal/feature/auth/usecase"
)

const usersCollection = "users"

type geoPointDoc struct {
	Type        string    `bson:"type"`
	Coordinates []float64 `bson:"coordinates"`
}

type ageRangeDoc struct {
	Min int `bson:"min"`
	Max int `bson:"max"`
}

type preferencesDoc struct {
	AgeRange    ageRangeDoc `bson:"ageRange"`
	Gender      []string    `bson:"gender"`
	MaxDistance int         `bson:"maxDistance"`
}

type userDoc struct {
	ID              primitive.ObjectID `bson:"_id"`
	Email           string             `bson:"email"`
	Password        string             `bson:"password,omitempty"`
	IsEmailVerified bool               `bson:"isEmailVerified"`

	VerificationToken    string     `bson:"verificationToken,omitempty"`
	ResetPasswordToken   string     `bson:"resetPasswordToken,omitempty"`
	ResetPasswordExpires *time.Time `bson:"resetPasswordExpires,omitempty"`

	Name           string         `bson:"name,omitempty"`
	Age            int            `bson:"age,omitempty"`
	Gender         string         `bson:"gender,omitempty"`
	Bio            string         `bson:"bio,omitempty"`
	Interests      []string       `bson:"interests,omitempty"`
	Location       *geoPointDoc   `bson:"location,omitempty"`
	ProfilePicture string         `bson:"profilePicture,omitempty"`
	Preferences    preferencesDoc `bson:"preferences"`

	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func toGeoPointDoc(p entity.GeoPoint) *geoPointDoc {
	return &geoPointDoc{Type: "Point", Coordinates: []float64{p.Longitude, p.Latitude}}
}

func toPreferencesDoc(p entity.Preferences) preferencesDoc {
	genders := make([]string, 0, len(p.Genders))
	for _, g := range p.Genders {
		genders = append(genders, string(g))
	}
	return preferencesDoc{
		AgeRange:    ageRangeDoc{Min: p.AgeRange.Min, Max: p.AgeRange.Max},
		Gender:      genders,
		MaxDistance: p.MaxDistance,
	}
}

func (d *userDoc) toEntity() *entity.User {
	u := &entity.User{
		ID:                   d.ID.Hex(),
		Email:                d.Email,
		Password:             d.Password,
		IsEmailVerified:      d.IsEmailVerified,
		VerificationToken:    d.VerificationToken,
		ResetPasswordToken:   d.ResetPasswordToken,
		ResetPasswordExpires: d.ResetPasswordExpires,
		Name:                 d.Name,
		Age:                  d.Age,
		Gender:               entity.Gender(d.Gender),
		Bio:                  d.Bio,
		Interests:            d.Interests,
		ProfilePicture:       d.ProfilePicture,
		Preferences: entity.Preferences{
			AgeRange:    entity.AgeRange{Min: d.Preferences.AgeRange.Min, Max: d.Preferences.AgeRange.Max},
			MaxDistance: d.Preferences.MaxDistance,
		},
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	for _, g := range d.Preferences.Gender {
		u.Preferences.Genders = append(u.Preferences.Genders, entity.Gender(g))
	}
	if d.Location != nil && len(d.Location.Coordinates) == 2 {
		u.Location = entity.GeoPoint{Longitude: d.Location.Coordinates[0], Latitude: d.Location.Coordinates[1]}
	}
	return u
}

// userMongo is the document credential store.
type userMongo struct {
	col *mongo.Collection
	now func() time.Time
}

var _ authusecase.UserRepository = (*userMongo)(nil)

// NewUserMongo creates a user store over the users collection of db.
func NewUserMongo(db *mongo.Database) *userMongo {
	return &userMongo{col: db.Collection(usersCollection), now: time.Now}
}

// EnsureIndexes creates the unique email index, token lookups and the geo index.
func (r *userMongo) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "verificationToken", Value: 1}}, Options: options.Index().SetSparse(true)},
		{Keys: bson.D{{Key: "resetPasswordToken", Value: 1}}, Options: options.Index().SetSparse(true)},
		{Keys: bson.D{{Key: "location", Value: "2dsphere"}}},
	})
	return err
}

func (r *userMongo) Create(ctx context.Context, u *entity.User) error {
	oid := primitive.NewObjectID()
	if u.ID != "" {
		var err error
		if oid, err = primitive.ObjectIDFromHex(u.ID); err != nil {
			return err
		}
	}
	now := r.now().UTC()
	doc := userDoc{
		ID:                oid,
		Email:             u.Email,
		Password:          u.Password,
		IsEmailVerified:   u.IsEmailVerified,
		VerificationToken: u.VerificationToken,
		Name:              u.Name,
		Age:               u.Age,
		Gender:            string(u.Gender),
		Bio:               u.Bio,
		Interests:         u.Interests,
		ProfilePicture:    u.ProfilePicture,
		Preferences:       toPreferencesDoc(u.Preferences),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if u.HasProfile() {
		doc.Location = toGeoPointDoc(u.Location)
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrEmailAlreadyExists
		}
		return err
	}
	u.ID = oid.Hex()
	u.CreatedAt, u.UpdatedAt = now, now
	return nil
}

func (r *userMongo) findOne(ctx context.Context, filter bson.M) (*entity.User, error) {
	var d userDoc
	if err := r.col.FindOne(ctx, filter).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return d.toEntity(), nil
}

func (r *userMongo) FindByID(ctx context.Context, id string) (*entity.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *userMongo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *userMongo) FindByVerificationToken(ctx context.Context, token string) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"verificationToken": token})
}

func (r *userMongo) FindByResetToken(ctx context.Context, token string, now time.Time) (*entity.User, error) {
	return r.findOne(ctx, bson.M{
		"resetPasswordToken":   token,
		"resetPasswordExpires": bson.M{"$gt": now},
	})
}

func objectIDs(ids []string) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			out = append(out, oid)
		}
	}
	return out
}

func (r *userMongo) decodeAll(ctx context.Context, cur *mongo.Cursor) ([]*entity.User, error) {
	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]*entity.User, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toEntity())
	}
	return out, nil
}

// FindByIDs returns the users with the given ids keyed by id. Unknown or malformed ids are skipped.
func (r *userMongo) FindByIDs(ctx context.Context, ids []string) (map[string]*entity.User, error) {
	out := make(map[string]*entity.User, len(ids))
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return out, nil
	}
	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, err
	}
	users, err := r.decodeAll(ctx, cur)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

// ListCandidates returns up to limit users other than excludeID without credential fields.
func (r *userMongo) ListCandidates(ctx context.Context, excludeID string, limit int) ([]*entity.User, error) {
	filter := bson.M{}
	if oid, err := primitive.ObjectIDFromHex(excludeID); err == nil {
		filter["_id"] = bson.M{"$ne": oid}
	}
	opts := options.Find().
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetProjection(bson.M{
			"password":             0,
			"verificationToken":    0,
			"resetPasswordToken":   0,
			"resetPasswordExpires": 0,
		})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	return r.decodeAll(ctx, cur)
}

func (r *userMongo) updateByID(ctx context.Context, id string, update bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}
	set, _ := update["$set"].(bson.M)
	if set == nil {
		set = bson.M{}
	}
	set["updatedAt"] = r.now().UTC()
	update["$set"] = set

	res, err := r.col.UpdateByID(ctx, oid, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *userMongo) MarkEmailVerified(ctx context.Context, id string) error {
	return r.updateByID(ctx, id, bson.M{
		"$set":   bson.M{"isEmailVerified": true},
		"$unset": bson.M{"verificationToken": ""},
	})
}

func (r *userMongo) SetResetToken(ctx context.Context, id, token string, expires time.Time) error {
	return r.updateByID(ctx, id, bson.M{
		"$set": bson.M{"resetPasswordToken": token, "resetPasswordExpires": expires},
	})
}

func (r *userMongo) UpdatePassword(ctx context.Context, id, hash string) error {
	return r.updateByID(ctx, id, bson.M{
		"$set":   bson.M{"password": hash},
		"$unset": bson.M{"resetPasswordToken": "", "resetPasswordExpires": ""},
	})
}

// UpdateProfile writes every profile and preference field of u.
func (r *userMongo) UpdateProfile(ctx context.Context, u *entity.User) error {
	return r.updateByID(ctx, u.ID, bson.M{"$set": bson.M{
		"name":        u.Name,
		"age":         u.Age,
		"gender":      string(u.Gender),
		"bio":         u.Bio,
		"interests":   u.Interests,
		"location":    toGeoPointDoc(u.Location),
		"preferences": toPreferencesDoc(u.Preferences),
	}})
}

func (r *userMongo) SetProfilePicture(ctx context.Context, id, url string) error {
	return r.updateByID(ctx, id, bson.M{"$set": bson.M{"profilePicture": url}})
}
