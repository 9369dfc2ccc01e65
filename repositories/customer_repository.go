package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/quadrahub/arena-system/models"
)

const (
	collectionMembers  = "members"
	collectionProfiles = "profiles"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrProfileNotFound = errors.New("profile not found")
)

// CustomerRepository persists the two customer record shapes. SaveCustomer
// dispatches on the union's tag, so a gateway customer id written back after
// remote creation lands in the right collection.
type CustomerRepository interface {
	GetMemberByID(ctx context.Context, userID string) (*models.User, error)
	GetMemberByEmail(ctx context.Context, email string) (*models.User, error)
	SaveMember(ctx context.Context, u *models.User) error
	GetProfileByID(ctx context.Context, profileID string) (*models.Profile, error)
	SaveProfile(ctx context.Context, p *models.Profile) error
	SaveCustomer(ctx context.Context, c models.Customer) error
}

type storeCustomerRepository struct {
	store RecordStore
}

func NewStoreCustomerRepository(store RecordStore) CustomerRepository {
	return &storeCustomerRepository{store: store}
}

func (r *storeCustomerRepository) GetMemberByID(ctx context.Context, userID string) (*models.User, error) {
	rec, err := r.store.Get(ctx, collectionMembers, GlobalPartition, userID)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load member %s: %w", userID, err)
	}

	var u models.User
	if err := json.Unmarshal(rec.Doc, &u); err != nil {
		return nil, fmt.Errorf("failed to decode member %s: %w", userID, err)
	}
	return &u, nil
}

func (r *storeCustomerRepository) GetMemberByEmail(ctx context.Context, email string) (*models.User, error) {
	recs, err := r.store.Select(ctx, collectionMembers, GlobalPartition)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	for _, rec := range recs {
		var u models.User
		if err := json.Unmarshal(rec.Doc, &u); err != nil {
			return nil, fmt.Errorf("failed to decode member %s: %w", rec.ID, err)
		}
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *storeCustomerRepository) SaveMember(ctx context.Context, u *models.User) error {
	rec, err := marshalRecord(u.ID, u)
	if err != nil {
		return err
	}
	if err := r.store.Upsert(ctx, collectionMembers, GlobalPartition, []Record{rec}); err != nil {
		return fmt.Errorf("failed to save member %s: %w", u.ID, err)
	}
	return nil
}

func (r *storeCustomerRepository) GetProfileByID(ctx context.Context, profileID string) (*models.Profile, error) {
	rec, err := r.store.Get(ctx, collectionProfiles, GlobalPartition, profileID)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load profile %s: %w", profileID, err)
	}

	var p models.Profile
	if err := json.Unmarshal(rec.Doc, &p); err != nil {
		return nil, fmt.Errorf("failed to decode profile %s: %w", profileID, err)
	}
	return &p, nil
}

func (r *storeCustomerRepository) SaveProfile(ctx context.Context, p *models.Profile) error {
	rec, err := marshalRecord(p.ID, p)
	if err != nil {
		return err
	}
	if err := r.store.Upsert(ctx, collectionProfiles, GlobalPartition, []Record{rec}); err != nil {
		return fmt.Errorf("failed to save profile %s: %w", p.ID, err)
	}
	return nil
}

func (r *storeCustomerRepository) SaveCustomer(ctx context.Context, c models.Customer) error {
	switch c.Kind {
	case models.CustomerMember:
		return r.SaveMember(ctx, c.Member)
	case models.CustomerProfile:
		return r.SaveProfile(ctx, c.Profile)
	}
	return fmt.Errorf("unknown customer kind %q", c.Kind)
}
