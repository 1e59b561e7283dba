package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "spenza/internal/errors"
	"spenza/internal/models"
	"spenza/internal/pagination"
)

// zoneService handles zone management and membership.
type zoneService struct {
	db *gorm.DB
}

// NewZoneService creates a new ZoneServicer.
func NewZoneService(db *gorm.DB) ZoneServicer {
	return &zoneService{db: db}
}

// CreateZone creates a new zone owned by the given admin user.
func (s *zoneService) CreateZone(createdBy uint, name, description string) (*models.Zone, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "zone name is required")
	}

	var count int64
	s.db.Model(&models.Zone{}).Where("name = ?", name).Count(&count)
	if count > 0 {
		return nil, apperrors.WithMessage(apperrors.ErrDuplicateName, "A zone with this name already exists")
	}

	zone := &models.Zone{Name: name, Description: description, CreatedBy: createdBy}
	if err := s.db.Create(zone).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return zone, nil
}

// ListZones returns a paginated list of zones, optionally filtered by a
// case-insensitive substring match on name.
func (s *zoneService) ListZones(page pagination.PageRequest, search string) (*pagination.PageResponse[models.Zone], error) {
	page.Defaults()

	base := s.db.Model(&models.Zone{})
	if search != "" {
		base = base.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var zones []models.Zone
	if err := base.Scopes(pagination.Paginate(page)).
		Order("name ASC").
		Find(&zones).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(zones, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetZoneByID retrieves a zone by ID.
func (s *zoneService) GetZoneByID(id uint) (*models.Zone, error) {
	var zone models.Zone
	if err := s.db.First(&zone, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrZoneNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &zone, nil
}

// UpdateZone updates a zone's name and description.
func (s *zoneService) UpdateZone(id uint, name, description string) (*models.Zone, error) {
	zone, err := s.GetZoneByID(id)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "zone name is required")
	}

	var count int64
	s.db.Model(&models.Zone{}).Where("name = ? AND id <> ?", name, id).Count(&count)
	if count > 0 {
		return nil, apperrors.WithMessage(apperrors.ErrDuplicateName, "A zone with this name already exists")
	}

	zone.Name = name
	zone.Description = description
	if err := s.db.Save(zone).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return zone, nil
}

// DeleteZone removes a zone. Deletion is refused while expenses still
// reference it; member assignments are cleared.
func (s *zoneService) DeleteZone(id uint) error {
	zone, err := s.GetZoneByID(id)
	if err != nil {
		return err
	}

	var count int64
	if err := s.db.Model(&models.Expense{}).Where("zone_id = ?", id).Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return apperrors.ErrZoneInUse
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(zone).Association("Members").Clear(); err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(zone).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// AssignUser adds a user to a zone's members.
func (s *zoneService) AssignUser(zoneID, userID uint) error {
	zone, err := s.GetZoneByID(zoneID)
	if err != nil {
		return err
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	count := s.db.Model(zone).Where("users.id = ?", userID).Association("Members").Count()
	if count > 0 {
		return apperrors.ErrAlreadyZoneMember
	}

	if err := s.db.Model(zone).Association("Members").Append(&user); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// RemoveUser removes a user from a zone's members.
func (s *zoneService) RemoveUser(zoneID, userID uint) error {
	zone, err := s.GetZoneByID(zoneID)
	if err != nil {
		return err
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Model(zone).Association("Members").Delete(&user); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetUserZoneIDs returns the IDs of every zone the user is a member of.
// This is the upstream-built scope for non-admin report and expense reads.
func (s *zoneService) GetUserZoneIDs(userID uint) ([]uint, error) {
	var zoneIDs []uint
	if err := s.db.Table("user_zones").
		Where("user_id = ?", userID).
		Pluck("zone_id", &zoneIDs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return zoneIDs, nil
}
