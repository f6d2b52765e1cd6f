package owner

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"petcare/internal/domain"
	"petcare/internal/pkg/logger"
	"petcare/internal/pkg/utils"
	"petcare/internal/pkg/validator"
	"petcare/internal/repository"
)

const maxPageSize = 100

type Service struct {
	db       *gorm.DB
	repo     *repository.OwnerRepository
	bookings Bookings
	log      *zap.Logger
}

func NewService(db *gorm.DB, repo *repository.OwnerRepository, bookings Bookings, log *zap.Logger) *Service {
	return &Service{db: db, repo: repo, bookings: bookings, log: logger.OrNop(log)}
}

func clampPage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	return page, min(pageSize, maxPageSize)
}

func (s *Service) List(ctx context.Context, q string, page, pageSize int) (*ListResult, error) {
	page, pageSize = clampPage(page, pageSize)
	owners, total, err := s.repo.List(ctx, q, page, pageSize)
	if err != nil {
		return nil, err
	}
	return &ListResult{Items: owners, Total: total, Page: page, PageSize: pageSize}, nil
}

func (s *Service) Create(ctx context.Context, req CreateOwnerRequest) (*domain.Owner, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	o := &domain.Owner{
		Name:    strings.TrimSpace(req.Name),
		Phone:   strings.TrimSpace(req.Phone),
		Address: req.Address,
		Email:   req.Email,
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}
	s.log.Info("owner created", zap.Int64("owner_id", o.ID))
	return o, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Owner, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateOwnerRequest) (*domain.Owner, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		fields["phone"] = strings.TrimSpace(*req.Phone)
	}
	if req.Address != nil {
		fields["address"] = *req.Address
	}
	if req.Email != nil {
		fields["email"] = *req.Email
	}
	if err := s.repo.UpdateFields(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) CreatePet(ctx context.Context, ownerID int64, req CreatePetRequest) (*domain.Pet, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	birthdate, err := utils.ParseTimePtr(req.Birthdate)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.GetByID(ctx, ownerID); err != nil {
		return nil, err
	}

	p := &domain.Pet{
		OwnerID:   ownerID,
		Name:      strings.TrimSpace(req.Name),
		Species:   strings.TrimSpace(req.Species),
		Breed:     req.Breed,
		Birthdate: birthdate,
	}
	if err := s.repo.CreatePet(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes the owner, their pets and every booking they ever had. Stock
// consumed by those bookings goes back to inventory in the same transaction.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	bookings, err := s.bookings.LoadByOwner(ctx, id)
	if err != nil {
		return err
	}

	note := fmt.Sprintf("Owner #%d deleted", id)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range bookings {
			if err := s.bookings.PurgeTx(ctx, tx, &bookings[i], note); err != nil {
				return err
			}
		}
		return s.repo.WithTx(tx).Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.log.Info("owner deleted", zap.Int64("owner_id", id), zap.Int("bookings", len(bookings)))
	return nil
}

func (s *Service) ListPets(ctx context.Context, q string, page, pageSize int) (*PetListResult, error) {
	page, pageSize = clampPage(page, pageSize)
	pets, total, err := s.repo.ListPets(ctx, q, page, pageSize)
	if err != nil {
		return nil, err
	}
	return &PetListResult{Items: pets, Total: total, Page: page, PageSize: pageSize}, nil
}

func (s *Service) UpdatePet(ctx context.Context, petID int64, req UpdatePetRequest) (*domain.Pet, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	birthdate, err := utils.ParseTimePtr(req.Birthdate)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.GetPet(ctx, petID); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Species != nil {
		fields["species"] = strings.TrimSpace(*req.Species)
	}
	if req.Breed != nil {
		fields["breed"] = *req.Breed
	}
	if birthdate != nil {
		fields["birthdate"] = *birthdate
	}
	if err := s.repo.UpdatePetFields(ctx, petID, fields); err != nil {
		return nil, err
	}
	return s.repo.GetPet(ctx, petID)
}

// DeletePet removes the pet and its part of every booking. The bookings
// themselves stay, even when the pet was their only patient.
func (s *Service) DeletePet(ctx context.Context, petID int64) error {
	if _, err := s.repo.GetPet(ctx, petID); err != nil {
		return err
	}
	records, err := s.bookings.PetRecords(ctx, petID)
	if err != nil {
		return err
	}

	note := fmt.Sprintf("Pet #%d deleted", petID)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, bp := range records {
			if err := s.bookings.PurgePetTx(ctx, tx, bp, note); err != nil {
				return err
			}
		}
		return s.repo.WithTx(tx).DeletePet(ctx, petID)
	})
	if err != nil {
		return err
	}

	s.log.Info("pet deleted", zap.Int64("pet_id", petID), zap.Int("booking_pets", len(records)))
	return nil
}

func (s *Service) MedicalRecords(ctx context.Context, petID int64) (*MedicalRecords, error) {
	pet, err := s.repo.GetPet(ctx, petID)
	if err != nil {
		return nil, err
	}
	records, err := s.bookings.PetRecords(ctx, petID)
	if err != nil {
		return nil, err
	}
	return &MedicalRecords{Pet: pet, Bookings: records}, nil
}
