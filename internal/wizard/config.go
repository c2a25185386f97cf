package wizard

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Content is the wizard's copy: the text shown at each gating step and
// the test pages themselves. Teams override it with a TOML file so the
// test can change without a rebuild.
type Content struct {
	Rules        string `toml:"rules"`
	ReadingOrder string `toml:"reading_order"`
	Example      string `toml:"example"`
	FinalNotes   string `toml:"final_notes"`
	Pages        []Page `toml:"pages"`
}

// Page describes one translation test page.
type Page struct {
	Image string `toml:"image"`
	Hint  string `toml:"hint,omitempty"`
}

const defaultPageCount = 13

// DefaultContent returns the built-in copy with the standard 13-page test.
func DefaultContent() Content {
	pages := make([]Page, defaultPageCount)
	for i := range pages {
		pages[i] = Page{Image: fmt.Sprintf("/images/apply/sayfa-%02d.jpg", i+1)}
	}
	return Content{
		Rules: "Çevirmen olarak başvurmadan önce kuralları okuyun:\n" +
			"balon sırasına sadık kalın, ses efektlerini köşeli parantezle,\n" +
			"anlatım kutularını yıldızla işaretleyin ve her sayfayı SAYFA\n" +
			"işaretiyle ayırın.",
		ReadingOrder: "Manga sağdan sola okunur. Balonları sayfanın sağ üst\n" +
			"köşesinden başlayarak sola ve aşağıya doğru sıralayın.",
		Example: "SAYFA 01\nMerhaba! Bugün hava çok güzel.\n[güm güm]\n" +
			"*Üç yıl önce, aynı gün...*",
		FinalNotes: "Testte sözlük kullanabilirsiniz. Makine çevirisi\n" +
			"başvurunuzun reddedilmesine yol açar. Boş bırakılan sayfalar\n" +
			"başvuruda boş olarak görünür.",
		Pages: pages,
	}
}

// LoadContent reads a TOML content file. An empty path returns the
// built-in default.
func LoadContent(path string) (Content, error) {
	if path == "" {
		return DefaultContent(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Content{}, fmt.Errorf("read wizard content: %w", err)
	}

	var c Content
	if err := toml.Unmarshal(raw, &c); err != nil {
		return Content{}, fmt.Errorf("parse wizard content: %w", err)
	}
	if len(c.Pages) == 0 {
		c.Pages = DefaultContent().Pages
	}
	return c, nil
}
