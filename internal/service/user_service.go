package service

import (
	"context"
	"errors"

	"peerlearn-be/internal/dto"
	"peerlearn-be/internal/entity"
	"peerlearn-be/internal/repository/specification"
	"peerlearn-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type TutorSearchFilter struct {
	Category string
	Skill    string
	Limit    int
	Offset   int
}

type IUserService interface {
	GetProfile(ctx context.Context, userId uuid.UUID, includePrivate bool) (*dto.UserProfileResponse, error)
	UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserProfileResponse, error)
	AddSkill(ctx context.Context, userId uuid.UUID, req *dto.AddSkillRequest) (*dto.UserSkillDTO, error)
	RemoveSkill(ctx context.Context, userId, skillId uuid.UUID) error
	SearchTutors(ctx context.Context, filter TutorSearchFilter) ([]*dto.UserProfileResponse, error)
}

type userService struct {
	uowFactory         unitofwork.RepositoryFactory
	achievementService IAchievementService
}

func NewUserService(uowFactory unitofwork.RepositoryFactory, achievementService IAchievementService) IUserService {
	return &userService{
		uowFactory:         uowFactory,
		achievementService: achievementService,
	}
}

// GetProfile returns the public view by default; includePrivate adds the
// email for the owner's own profile.
func (s *userService) GetProfile(ctx context.Context, userId uuid.UUID, includePrivate bool) (*dto.UserProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}

	skills, err := uow.UserRepository().FindSkills(ctx, userId)
	if err != nil {
		return nil, err
	}

	resp := mapProfile(user, skills, includePrivate)

	achievements, err := s.achievementService.GetUserAchievements(ctx, userId)
	if err == nil {
		resp.Achievements = achievements
	}
	return resp, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}

	user.FullName = req.FullName
	user.Bio = req.Bio
	if req.AvatarURL != "" {
		user.AvatarURL = &req.AvatarURL
	}

	if err := uow.UserRepository().UpdateProfile(ctx, user); err != nil {
		return nil, err
	}
	return s.GetProfile(ctx, userId, true)
}

func (s *userService) AddSkill(ctx context.Context, userId uuid.UUID, req *dto.AddSkillRequest) (*dto.UserSkillDTO, error) {
	category := entity.SkillCategory(req.Category)
	if !entity.ValidSkillCategory(category) {
		return nil, errors.New("unknown skill category")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	skills, err := uow.UserRepository().FindSkills(ctx, userId)
	if err != nil {
		return nil, err
	}
	for _, existing := range skills {
		if existing.Name == req.Name && string(existing.Kind) == req.Kind {
			return nil, errors.New("skill already added")
		}
	}

	skill := &entity.UserSkill{
		Id:       uuid.New(),
		UserId:   userId,
		Name:     req.Name,
		Category: category,
		Kind:     entity.SkillKind(req.Kind),
		Level:    req.Level,
	}
	if err := uow.UserRepository().AddSkill(ctx, skill); err != nil {
		return nil, err
	}

	return &dto.UserSkillDTO{
		Id:       skill.Id,
		Name:     skill.Name,
		Category: string(skill.Category),
		Kind:     string(skill.Kind),
		Level:    skill.Level,
	}, nil
}

func (s *userService) RemoveSkill(ctx context.Context, userId, skillId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.UserRepository().RemoveSkill(ctx, userId, skillId)
}

// SearchTutors lists active users teaching a matching skill. Matching is on
// the user_skills rows with kind=teach.
func (s *userService) SearchTutors(ctx context.Context, filter TutorSearchFilter) ([]*dto.UserProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	limit := filter.Limit
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	specs := []specification.Specification{
		specification.ActiveUsers{},
		specification.TeachesSkill{Name: filter.Skill, Category: filter.Category},
		specification.OrderBy{Field: "rating_total", Desc: true},
		specification.Pagination{Limit: limit, Offset: filter.Offset},
	}

	users, err := uow.UserRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	profiles := make([]*dto.UserProfileResponse, 0, len(users))
	for _, user := range users {
		skills, err := uow.UserRepository().FindSkills(ctx, user.Id)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, mapProfile(user, skills, false))
	}
	return profiles, nil
}

func mapProfile(user *entity.User, skills []*entity.UserSkill, includePrivate bool) *dto.UserProfileResponse {
	skillDTOs := make([]dto.UserSkillDTO, 0, len(skills))
	for _, skill := range skills {
		skillDTOs = append(skillDTOs, dto.UserSkillDTO{
			Id:       skill.Id,
			Name:     skill.Name,
			Category: string(skill.Category),
			Kind:     string(skill.Kind),
			Level:    skill.Level,
		})
	}

	resp := &dto.UserProfileResponse{
		Id:       user.Id,
		FullName: user.FullName,
		Bio:      user.Bio,
		Role:     string(user.Role),
		Status:   string(user.Status),
		Stats: dto.UserStatsDTO{
			SessionsHosted:    user.Stats.SessionsHosted,
			SessionsCompleted: user.Stats.SessionsCompleted,
			TotalPoints:       user.Stats.TotalPoints,
			HoursTaught:       user.Stats.HoursTaught,
			HoursLearned:      user.Stats.HoursLearned,
			AverageRating:     user.Stats.AverageRating(),
			RatingCount:       user.Stats.RatingCount,
		},
		Skills:      skillDTOs,
		MemberSince: user.CreatedAt,
	}
	if user.AvatarURL != nil {
		resp.AvatarURL = *user.AvatarURL
	}
	if includePrivate {
		resp.Email = user.Email
	}
	return resp
}
