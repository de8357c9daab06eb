package services

import (
	"context"
	"errors"
	"strings"

	"github.com/Dimuthu1234/soundcloud-boost/internal/cache"
	"github.com/Dimuthu1234/soundcloud-boost/internal/model"

	"github.com/google/uuid"
)

var validCategories = map[string]bool{
	"SoundcloudBoost": true,
	"GraphicDesign":   true,
	"VideoEditing":    true,
}

type PackageService struct {
	Repo  PackageStore
	Cache *cache.Cache // nil when redis is not configured
}

func NewPackageService(repo PackageStore, c *cache.Cache) *PackageService {
	return &PackageService{Repo: repo, Cache: c}
}

func validatePackage(p *model.Package) error {
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return errors.New("title is required")
	}
	if strings.TrimSpace(p.Description) == "" {
		return errors.New("description is required")
	}
	if p.Price <= 0 {
		return errors.New("price must be a positive number")
	}
	if p.DeliveryDays < 1 {
		return errors.New("delivery days must be a positive integer")
	}
	if !validCategories[p.Category] {
		return errors.New("category must be SoundcloudBoost, GraphicDesign, or VideoEditing")
	}
	return nil
}

// List returns active packages, cache-aside for the unfiltered listing.
func (s *PackageService) List(ctx context.Context, category string) ([]model.Package, error) {
	if category == "" {
		var cached []model.Package
		if s.Cache.Get(ctx, "packages:active", &cached) {
			return cached, nil
		}
	}

	list, err := s.Repo.ListActive(ctx, category)
	if err != nil {
		return nil, err
	}
	if category == "" {
		s.Cache.Set(ctx, "packages:active", list)
	}
	return list, nil
}

func (s *PackageService) Get(ctx context.Context, id string) (*model.Package, error) {
	var cached model.Package
	if s.Cache.Get(ctx, "package:"+id, &cached) {
		return &cached, nil
	}

	pkg, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pkg == nil {
		return nil, ErrPackageNotFound
	}
	s.Cache.Set(ctx, "package:"+id, pkg)
	return pkg, nil
}

func (s *PackageService) Create(ctx context.Context, p *model.Package) error {
	if err := validatePackage(p); err != nil {
		return err
	}
	p.PackageID = uuid.NewString()
	p.IsActive = true
	if err := s.Repo.Create(ctx, p); err != nil {
		return err
	}
	s.Cache.Delete(ctx, "packages:active")
	return nil
}

func (s *PackageService) Update(ctx context.Context, p *model.Package) error {
	existing, err := s.Repo.GetByID(ctx, p.PackageID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrPackageNotFound
	}
	if err := validatePackage(p); err != nil {
		return err
	}
	if err := s.Repo.Update(ctx, p); err != nil {
		return err
	}
	s.Cache.Delete(ctx, "packages:active", "package:"+p.PackageID)
	return nil
}

func (s *PackageService) Delete(ctx context.Context, id string) error {
	existing, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrPackageNotFound
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	s.Cache.Delete(ctx, "packages:active", "package:"+id)
	return nil
}
