package services

import (
	"errors"
	"fmt"
	"strings"

	"BooksApp/app/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ArticleService is the entity store for catalog articles.
type ArticleService struct {
	*BaseService
	sequences *SequenceService
}

// NewArticleService creates a new article service.
func NewArticleService() *ArticleService {
	return &ArticleService{NewBaseService(), NewSequenceService()}
}

// ArticleInput carries the writable article fields.
type ArticleInput struct {
	Name        string `validate:"required"`
	ArticleCode string
	Unit        string
	Price       decimal.Decimal
	Notes       string
}

// AddArticle validates and inserts an article, allocating the next article
// code when none is supplied.
func (s *ArticleService) AddArticle(in ArticleInput) (uint, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateInput(in); err != nil {
		return 0, err
	}
	if in.Price.Sign() < 0 {
		return 0, validationErrorf("article price must not be negative")
	}

	article := models.Article{
		Name:        in.Name,
		ArticleCode: strings.TrimSpace(in.ArticleCode),
		Unit:        in.Unit,
		Price:       in.Price,
		Notes:       in.Notes,
	}

	err := s.WithTransaction(func(tx *gorm.DB) error {
		if article.ArticleCode == "" {
			code, err := s.sequences.NextEntityCode(tx, "articles")
			if err != nil {
				return fmt.Errorf("failed to allocate article code: %w", err)
			}
			article.ArticleCode = code
		}
		return tx.Create(&article).Error
	})
	if err != nil {
		return 0, err
	}
	return article.ID, nil
}

// UpdateArticle updates an article's writable fields.
func (s *ArticleService) UpdateArticle(id uint, in ArticleInput) error {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateInput(in); err != nil {
		return err
	}
	if in.Price.Sign() < 0 {
		return validationErrorf("article price must not be negative")
	}

	updates := map[string]any{
		"name":  in.Name,
		"unit":  in.Unit,
		"price": in.Price,
		"notes": in.Notes,
	}
	if code := strings.TrimSpace(in.ArticleCode); code != "" {
		updates["article_code"] = code
	}

	res := s.db.Model(&models.Article{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("article %d: %w", id, ErrNotFound)
	}
	return nil
}

// GetArticle returns one article by id.
func (s *ArticleService) GetArticle(id uint) (*models.Article, error) {
	var article models.Article
	if err := s.db.First(&article, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("article %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &article, nil
}

// GetAllArticles returns all articles ordered by name.
func (s *ArticleService) GetAllArticles() ([]models.Article, error) {
	var articles []models.Article
	err := s.db.Order("name").Find(&articles).Error
	return articles, err
}

// DeleteArticle removes an article. Proforma items keep their denormalized
// article name and code; their article_id is detached.
func (s *ArticleService) DeleteArticle(id uint) error {
	return s.WithTransaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.ProformaItem{}).
			Where("article_id = ?", id).
			Update("article_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Article{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("article %d: %w", id, ErrNotFound)
		}
		return nil
	})
}
