package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/unimaxdigital/agency-web/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type userDoc struct {
	ID                        primitive.ObjectID `bson:"_id,omitempty"`
	Email                     string             `bson:"email"`
	Password                  string             `bson:"password,omitempty"`
	FirstName                 string             `bson:"firstName"`
	LastName                  string             `bson:"lastName"`
	Phone                     string             `bson:"phone"`
	Company                   string             `bson:"company"`
	Image                     string             `bson:"image,omitempty"`
	AccountType               string             `bson:"accountType"`
	AgreeToTerms              bool               `bson:"agreeToTerms"`
	SubscribeNewsletter       bool               `bson:"subscribeNewsletter"`
	Role                      string             `bson:"role"`
	IsVerified                bool               `bson:"isVerified"`
	Provider                  string             `bson:"provider"`
	VerifyToken               string             `bson:"verifyToken,omitempty"`
	VerifyTokenExpiry         *time.Time         `bson:"verifyTokenExpiry,omitempty"`
	ForgotPasswordToken       string             `bson:"forgotPasswordToken,omitempty"`
	ForgotPasswordTokenExpiry *time.Time         `bson:"forgotPasswordTokenExpiry,omitempty"`
	CreatedAt                 time.Time          `bson:"createdAt"`
	UpdatedAt                 time.Time          `bson:"updatedAt"`
}

func fromDomain(u *domain.User) userDoc {
	return userDoc{
		Email:               domain.NormalizeEmail(u.Email),
		Password:            u.PasswordHash,
		FirstName:           u.FirstName,
		LastName:            u.LastName,
		Phone:               u.Phone,
		Company:             u.Company,
		Image:               u.Image,
		AccountType:         u.AccountType,
		AgreeToTerms:        u.AgreeToTerms,
		SubscribeNewsletter: u.SubscribeNewsletter,
		Role:                u.Role,
		IsVerified:          u.IsVerified,
		Provider:            u.Provider,
	}
}

func (d *userDoc) toDomain() *domain.User {
	return &domain.User{
		ID:                        d.ID.Hex(),
		Email:                     d.Email,
		PasswordHash:              d.Password,
		FirstName:                 d.FirstName,
		LastName:                  d.LastName,
		Phone:                     d.Phone,
		Company:                   d.Company,
		Image:                     d.Image,
		AccountType:               d.AccountType,
		AgreeToTerms:              d.AgreeToTerms,
		SubscribeNewsletter:       d.SubscribeNewsletter,
		Role:                      d.Role,
		IsVerified:                d.IsVerified,
		Provider:                  d.Provider,
		VerifyToken:               d.VerifyToken,
		VerifyTokenExpiry:         d.VerifyTokenExpiry,
		ForgotPasswordToken:       d.ForgotPasswordToken,
		ForgotPasswordTokenExpiry: d.ForgotPasswordTokenExpiry,
		CreatedAt:                 d.CreatedAt,
		UpdatedAt:                 d.UpdatedAt,
	}
}

// UserRepository implements domain.UserRepository on a MongoDB collection.
type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(coll *mongo.Collection) *UserRepository {
	return &UserRepository{coll: coll}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := fromDomain(user)
	doc.ID = primitive.NewObjectID()
	doc.CreatedAt, doc.UpdatedAt = now, now

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}

	user.ID = doc.ID.Hex()
	user.CreatedAt, user.UpdatedAt = now, now
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid}, "find user by id")
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": domain.NormalizeEmail(email)}, "find user by email")
}

func (r *UserRepository) GetByToken(ctx context.Context, purpose domain.TokenPurpose, token string) (*domain.User, error) {
	tokenField, _, err := tokenFields(purpose)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{tokenField: token}, "find user by token")
}

func (r *UserRepository) SetToken(ctx context.Context, id string, purpose domain.TokenPurpose, token string, expiry time.Time) error {
	tokenField, expiryField, err := tokenFields(purpose)
	if err != nil {
		return err
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrNotFound
	}
	return r.updateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{tokenField: token, expiryField: expiry.UTC(), "updatedAt": time.Now().UTC()},
	}, "set token")
}

func (r *UserRepository) MarkVerified(ctx context.Context, id, token string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrNotFound
	}
	return r.updateOne(ctx, bson.M{"_id": oid, "verifyToken": token}, bson.M{
		"$set":   bson.M{"isVerified": true, "updatedAt": time.Now().UTC()},
		"$unset": bson.M{"verifyToken": "", "verifyTokenExpiry": ""},
	}, "mark verified")
}

func (r *UserRepository) ResetPassword(ctx context.Context, id, token, passwordHash string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrNotFound
	}
	return r.updateOne(ctx, bson.M{"_id": oid, "forgotPasswordToken": token}, bson.M{
		"$set":   bson.M{"password": passwordHash, "updatedAt": time.Now().UTC()},
		"$unset": bson.M{"forgotPasswordToken": "", "forgotPasswordTokenExpiry": ""},
	}, "reset password")
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M, op string) (*domain.User, error) {
	var doc userDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) updateOne(ctx context.Context, filter, update bson.M, op string) error {
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func tokenFields(purpose domain.TokenPurpose) (token, expiry string, err error) {
	switch purpose {
	case domain.PurposeVerify:
		return "verifyToken", "verifyTokenExpiry", nil
	case domain.PurposeReset:
		return "forgotPasswordToken", "forgotPasswordTokenExpiry", nil
	}
	return "", "", fmt.Errorf("%w: unknown token purpose %q", domain.ErrInvalidInput, purpose)
}
