package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/blogicum/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	PageAbout = "about"
	PageRules = "rules"
)

const pageSummaryLimit = 120

// builtinPages 在数据库没有覆盖时提供默认内容
var builtinPages = map[string]db.Page{
	PageAbout: {
		Slug:  PageAbout,
		Title: "О проекте",
		Content: "**Блогикум** это сайт, на котором пользователь может создать свою страницу " +
			"и публиковать на ней сообщения («посты»).\n\n" +
			"Каждый пост можно отнести к категории и указать место, к которому он относится.",
	},
	PageRules: {
		Slug:  PageRules,
		Title: "Наши правила",
		Content: "Приветствуем вас на нашей платформе! Чтобы общение было приятным для всех, соблюдайте правила:\n\n" +
			"1. Уважайте других пользователей, оскорбления и травля запрещены.\n" +
			"2. Не публикуйте спам, рекламу и чужие материалы без разрешения.\n" +
			"3. Публикуйте только законный контент.\n\n" +
			"Посты и комментарии, нарушающие правила, могут быть удалены.",
	},
}

// PageService serves the static pages of the site.
type PageService struct {
	db *gorm.DB
}

// NewPageService creates a PageService instance.
func NewPageService(gdb *gorm.DB) *PageService {
	return &PageService{db: gdb}
}

// GetBySlug returns the stored page, or the built-in default for known
// slugs that were never edited.
func (s *PageService) GetBySlug(slug string) (*db.Page, error) {
	var page db.Page
	err := s.db.Where("slug = ?", slug).First(&page).Error
	if err == nil {
		return &page, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("get page: %w", err)
	}

	builtin, ok := builtinPages[slug]
	if !ok {
		return nil, ErrPageNotFound
	}
	builtin.Summary = summarizeContent(builtin.Content)
	return &builtin, nil
}

// List returns every known page, stored or built-in, ordered by slug.
func (s *PageService) List() ([]db.Page, error) {
	var stored []db.Page
	if err := s.db.Order("slug asc").Find(&stored).Error; err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}

	seen := make(map[string]bool, len(stored))
	for _, page := range stored {
		seen[page.Slug] = true
	}
	pages := stored
	for _, slug := range []string{PageAbout, PageRules} {
		if !seen[slug] {
			builtin := builtinPages[slug]
			builtin.Summary = summarizeContent(builtin.Content)
			pages = append(pages, builtin)
		}
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].Slug < pages[j].Slug })
	return pages, nil
}

// Save creates or replaces the page identified by slug.
func (s *PageService) Save(slug string, input PageInput) (*db.Page, error) {
	slug = strings.TrimSpace(slug)
	input.normalize()
	verrs := validateStruct(&input)
	if err := validate.Var(slug, "required,max=64,slug"); err != nil {
		verrs.Add("slug", slugMessage)
	}
	if err := verrs.orNil(); err != nil {
		return nil, err
	}

	page := db.Page{
		Slug:    slug,
		Title:   input.Title,
		Summary: summarizeContent(input.Content),
		Content: input.Content,
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "summary", "content", "updated_at"}),
	}).Create(&page).Error
	if err != nil {
		return nil, fmt.Errorf("save page: %w", err)
	}
	return s.GetBySlug(slug)
}

// summarizeContent strips markdown markers and truncates to a short teaser.
func summarizeContent(content string) string {
	cleaned := strings.NewReplacer("#", "", "*", "", "`", "", ">", "", "_", "").Replace(content)
	cleaned = strings.Join(strings.Fields(cleaned), " ")

	runes := []rune(cleaned)
	if len(runes) <= pageSummaryLimit {
		return cleaned
	}
	return strings.TrimSpace(string(runes[:pageSummaryLimit])) + "…"
}
