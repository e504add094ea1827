package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"heartlink/internal/domain"
	"heartlink/internal/domain/entity"
	authusecase "heartlink/internal/feature/auth/usecase"
)

// userGorm is the SQL credential store.
type userGorm struct {
	db *gorm.DB
}

var _ authusecase.UserRepository = (*userGorm)(nil)

// NewUserGorm creates a user store over db. The db must be opened with TranslateError.
func NewUserGorm(db *gorm.DB) *userGorm {
	return &userGorm{db: db}
}

// Create inserts u. A duplicate email yields domain.ErrEmailAlreadyExists.
func (r *userGorm) Create(ctx context.Context, u *entity.User) error {
	if u.ID == "" {
		u.ID = entity.NewID()
	}
	m := toUserModel(u)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrEmailAlreadyExists
		}
		return err
	}
	u.CreatedAt, u.UpdatedAt = m.CreatedAt, m.UpdatedAt
	return nil
}

func (r *userGorm) first(ctx context.Context, query string, args ...any) (*entity.User, error) {
	var m UserModel
	if err := r.db.WithContext(ctx).Where(query, args...).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return m.ToEntity(), nil
}

func (r *userGorm) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *userGorm) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *userGorm) FindByVerificationToken(ctx context.Context, token string) (*entity.User, error) {
	return r.first(ctx, "verification_token = ?", token)
}

func (r *userGorm) FindByResetToken(ctx context.Context, token string, now time.Time) (*entity.User, error) {
	return r.first(ctx, "reset_password_token = ? AND reset_password_expires > ?", token, now.UTC())
}

// FindByIDs returns the users with the given ids keyed by id. Unknown ids are skipped.
func (r *userGorm) FindByIDs(ctx context.Context, ids []string) (map[string]*entity.User, error) {
	out := make(map[string]*entity.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []UserModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		out[rows[i].ID] = rows[i].ToEntity()
	}
	return out, nil
}

// ListCandidates returns up to limit users other than excludeID without credential fields.
func (r *userGorm) ListCandidates(ctx context.Context, excludeID string, limit int) ([]*entity.User, error) {
	var rows []UserModel
	if err := r.db.WithContext(ctx).
		Omit("password", "verification_token", "reset_password_token", "reset_password_expires").
		Where("id <> ?", excludeID).
		Order("id").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*entity.User, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToEntity())
	}
	return out, nil
}

func (r *userGorm) update(ctx context.Context, id string, fields map[string]any) error {
	res := r.db.WithContext(ctx).Model(&UserModel{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *userGorm) MarkEmailVerified(ctx context.Context, id string) error {
	return r.update(ctx, id, map[string]any{
		"is_email_verified":  true,
		"verification_token": nil,
	})
}

func (r *userGorm) SetResetToken(ctx context.Context, id, token string, expires time.Time) error {
	return r.update(ctx, id, map[string]any{
		"reset_password_token":   token,
		"reset_password_expires": expires.UTC(),
	})
}

func (r *userGorm) UpdatePassword(ctx context.Context, id, hash string) error {
	return r.update(ctx, id, map[string]any{
		"password":               hash,
		"reset_password_token":   nil,
		"reset_password_expires": nil,
	})
}

// UpdateProfile writes every profile and preference field of u.
func (r *userGorm) UpdateProfile(ctx context.Context, u *entity.User) error {
	m := toUserModel(u)
	res := r.db.WithContext(ctx).Model(&UserModel{ID: u.ID}).
		Select("name", "age", "gender", "bio", "interests", "longitude", "latitude",
			"pref_age_min", "pref_age_max", "pref_genders", "pref_max_distance").
		Updates(m)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *userGorm) SetProfilePicture(ctx context.Context, id, url string) error {
	return r.update(ctx, id, map[string]any{"profile_picture": url})
}
