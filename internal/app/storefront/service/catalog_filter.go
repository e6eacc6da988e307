package service

import (
	"strings"

	"willowmart/internal/app/storefront/entity"

	"github.com/google/uuid"
)

// featuredLimit - сколько рекомендуемых товаров показывается на витрине
const featuredLimit = 4

// FilterProducts возвращает товары, подходящие под поисковый запрос и категорию.
// Чистая функция: поиск - регистронезависимое вхождение query в имя ИЛИ описание
// (пустое описание просто не совпадает), категория - точное равенство, если задана.
// Порядок входного списка сохраняется, исходный slice не изменяется
func FilterProducts(products []entity.Product, query string, categoryID *uuid.UUID) []entity.Product {
	query = strings.ToLower(strings.TrimSpace(query))

	filtered := make([]entity.Product, 0, len(products))
	for _, p := range products {
		if query != "" {
			name := strings.ToLower(p.Name)
			description := strings.ToLower(p.Description)
			if !strings.Contains(name, query) && !strings.Contains(description, query) {
				continue
			}
		}

		if categoryID != nil {
			if p.CategoryID == nil || *p.CategoryID != *categoryID {
				continue
			}
		}

		filtered = append(filtered, p)
	}

	return filtered
}

// FeaturedProducts возвращает первые 4 рекомендуемых товара в текущем порядке.
// Показывается только когда не активен ни поиск, ни фильтр по категории
func FeaturedProducts(products []entity.Product) []entity.Product {
	featured := make([]entity.Product, 0, featuredLimit)
	for _, p := range products {
		if !p.IsFeatured {
			continue
		}
		featured = append(featured, p)
		if len(featured) == featuredLimit {
			break
		}
	}
	return featured
}
