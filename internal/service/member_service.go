package service

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"resourcing/internal/apperror"
	"resourcing/internal/model"
	"resourcing/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultEmailDomain is the corporate domain members and logins are
// restricted to; override with ALLOWED_EMAIL_DOMAIN.
const DefaultEmailDomain = "prodesign.mu"

// AllowedEmailDomain returns the configured corporate email domain
func AllowedEmailDomain() string {
	if d := os.Getenv("ALLOWED_EMAIL_DOMAIN"); d != "" {
		return d
	}
	return DefaultEmailDomain
}

// --- DTOs ---

type CreateMemberDTO struct {
	Name         string          `json:"name" binding:"required"`
	Email        string          `json:"email" binding:"required,email"`
	JobTitle     string          `json:"jobTitle" binding:"required"`
	Discipline   string          `json:"discipline" binding:"required"`
	Department   string          `json:"department" binding:"required,oneof=LEED BIM MEP ADMIN"`
	BillableRate decimal.Decimal `json:"billableRate" binding:"required"`
}

type UpdateMemberDTO struct {
	Name         *string          `json:"name"`
	Email        *string          `json:"email" binding:"omitempty,email"`
	JobTitle     *string          `json:"jobTitle"`
	Discipline   *string          `json:"discipline"`
	Department   *string          `json:"department" binding:"omitempty,oneof=LEED BIM MEP ADMIN"`
	BillableRate *decimal.Decimal `json:"billableRate"`
}

// --- Interface ---

type MemberService interface {
	Create(ctx context.Context, dto CreateMemberDTO) (*model.Member, error)
	List(ctx context.Context) ([]model.Member, error)
	Update(ctx context.Context, id string, dto UpdateMemberDTO) (*model.Member, error)
	Delete(ctx context.Context, id string) error
}

type memberService struct {
	members repository.MemberRepository
	domain  string
	emailRe *regexp.Regexp
}

func NewMemberService(members repository.MemberRepository) MemberService {
	domain := AllowedEmailDomain()
	pattern := fmt.Sprintf(`^[a-zA-Z0-9._%%+-]+@%s$`, regexp.QuoteMeta(domain))
	return &memberService{
		members: members,
		domain:  domain,
		emailRe: regexp.MustCompile(pattern),
	}
}

// --- Implementation ---

func (s *memberService) validateEmail(email string) error {
	if !s.emailRe.MatchString(email) {
		return apperror.Validation(fmt.Sprintf("Email must be a @%s address.", s.domain))
	}
	return nil
}

func (s *memberService) Create(ctx context.Context, dto CreateMemberDTO) (*model.Member, error) {
	if err := s.validateEmail(dto.Email); err != nil {
		return nil, err
	}
	if dto.BillableRate.LessThanOrEqual(decimal.Zero) {
		return nil, apperror.Validation("billableRate must be positive")
	}

	member := &model.Member{
		Name:         dto.Name,
		Email:        strings.ToLower(dto.Email),
		JobTitle:     dto.JobTitle,
		Discipline:   dto.Discipline,
		Department:   dto.Department,
		BillableRate: dto.BillableRate,
	}
	if err := s.members.Create(ctx, member); err != nil {
		if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "unique") {
			return nil, apperror.Conflict("a member with this email already exists")
		}
		return nil, apperror.Storage("failed to create member", err)
	}
	return member, nil
}

func (s *memberService) List(ctx context.Context) ([]model.Member, error) {
	members, err := s.members.List(ctx)
	if err != nil {
		return nil, apperror.Storage("failed to fetch members", err)
	}
	return members, nil
}

func (s *memberService) Update(ctx context.Context, id string, dto UpdateMemberDTO) (*model.Member, error) {
	memberID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.Validation("invalid member id")
	}

	member, err := s.members.FindByID(ctx, memberID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperror.NotFound("Member not found")
		}
		return nil, apperror.Storage("failed to load member", err)
	}

	if dto.Email != nil {
		if err := s.validateEmail(*dto.Email); err != nil {
			return nil, err
		}
		newEmail := strings.ToLower(*dto.Email)
		if newEmail != member.Email {
			if existing, findErr := s.members.FindByEmail(ctx, newEmail); findErr == nil && existing != nil {
				return nil, apperror.Conflict("a member with this email already exists")
			}
			member.Email = newEmail
		}
	}
	if dto.Name != nil {
		member.Name = *dto.Name
	}
	if dto.JobTitle != nil {
		member.JobTitle = *dto.JobTitle
	}
	if dto.Discipline != nil {
		member.Discipline = *dto.Discipline
	}
	if dto.Department != nil {
		member.Department = *dto.Department
	}
	if dto.BillableRate != nil {
		if dto.BillableRate.LessThanOrEqual(decimal.Zero) {
			return nil, apperror.Validation("billableRate must be positive")
		}
		member.BillableRate = *dto.BillableRate
	}

	if err := s.members.Save(ctx, member); err != nil {
		return nil, apperror.Storage("failed to update member", err)
	}
	return member, nil
}

func (s *memberService) Delete(ctx context.Context, id string) error {
	memberID, err := uuid.Parse(id)
	if err != nil {
		return apperror.Validation("invalid member id")
	}
	if err := s.members.Delete(ctx, memberID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperror.NotFound("Member not found")
		}
		return apperror.Storage("failed to delete member", err)
	}
	return nil
}
