package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/memberhub/accounts/internal/core/domain"
)

const memberCollection = "member"

// MemberRepository stores members in the "member" collection. Email
// uniqueness is enforced by the index created in EnsureIndexes.
type MemberRepository struct {
	coll *mongo.Collection
}

func NewMemberRepository(db *mongo.Database) *MemberRepository {
	return &MemberRepository{coll: db.Collection(memberCollection)}
}

type memberDoc struct {
	ID           primitive.ObjectID `bson:"_id"`
	Role         string             `bson:"role"`
	Name         string             `bson:"name"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
	IsSuperuser  bool               `bson:"is_superuser"`
	IsStaff      bool               `bson:"is_staff"`
	LastLogin    *time.Time         `bson:"last_login"`
}

// Create inserts member and returns a copy carrying the assigned ID.
func (r *MemberRepository) Create(ctx context.Context, member *domain.Member) (*domain.Member, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := memberDoc{
		ID:           primitive.NewObjectID(),
		Role:         member.Role,
		Name:         member.Name,
		Email:        member.Email,
		PasswordHash: member.PasswordHash,
		CreatedAt:    member.CreatedAt.UTC(),
		UpdatedAt:    member.UpdatedAt.UTC(),
		IsSuperuser:  member.IsSuperuser,
		IsStaff:      member.IsStaff,
		LastLogin:    member.LastLogin,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("insert member: %w", err)
	}

	return doc.toDomain(), nil
}

func (r *MemberRepository) FindByEmail(ctx context.Context, email string) (*domain.Member, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc memberDoc
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, fmt.Errorf("find member: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *MemberRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOne().SetProjection(bson.M{"_id": 1})
	err := r.coll.FindOne(ctx, bson.M{"email": email}, opts).Err()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return false, nil
	default:
		return false, fmt.Errorf("check member email: %w", err)
	}
}

// RecordLogin stamps last_login and updated_at with at.
func (r *MemberRepository) RecordLogin(ctx context.Context, id string, at time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("record login: %w", domain.ErrMemberNotFound)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	at = at.UTC()
	res, err := r.coll.UpdateByID(ctx, oid, bson.M{
		"$set": bson.M{"last_login": at, "updated_at": at},
	})
	if err != nil {
		return fmt.Errorf("record login: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("record login: %w", domain.ErrMemberNotFound)
	}
	return nil
}

// EnsureIndexes creates the unique email index on the member collection.
func (r *MemberRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("member_email_unique"),
	})
	if err != nil {
		return fmt.Errorf("ensure member indexes: %w", err)
	}
	return nil
}

func (d memberDoc) toDomain() *domain.Member {
	m := &domain.Member{
		ID:           d.ID.Hex(),
		Role:         d.Role,
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
		IsSuperuser:  d.IsSuperuser,
		IsStaff:      d.IsStaff,
	}
	if d.LastLogin != nil {
		ll := d.LastLogin.UTC()
		m.LastLogin = &ll
	}
	return m
}
