package inventory

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// Fold normaliza texto para búsqueda: minúsculas y sin tildes ("Cámara" -> "camara").
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

// Matches evalúa el filtro sobre un producto. Todos los criterios se combinan con AND;
// un criterio vacío no filtra.
func Matches(p *entity.Product, f repository.ProductFilter) bool {
	if term := Fold(f.SearchTerm); term != "" {
		if !strings.Contains(Fold(p.Name), term) && !strings.Contains(Fold(p.Description), term) {
			return false
		}
	}
	if f.Category != "" && !strings.EqualFold(strings.TrimSpace(p.Category), strings.TrimSpace(f.Category)) {
		return false
	}
	if f.MinPrice != nil && p.Price.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice) {
		return false
	}
	c := Classify(p)
	if f.LowStockOnly && !c.LowStock {
		return false
	}
	if f.OutOfStockOnly && !c.OutOfStock {
		return false
	}
	return true
}
