package email

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"sync"
)

//go:embed templates/*.html
var defaultTemplates embed.FS

// TemplateManager реализует TemplateRenderer
type TemplateManager struct {
	templates map[string]*template.Template
	mutex     sync.RWMutex
}

func NewTemplateManager() *TemplateManager {
	return &TemplateManager{
		templates: make(map[string]*template.Template),
	}
}

// NewDefaultTemplateManager загружает встроенные шаблоны, затем (если задан) каталог поверх них
func NewDefaultTemplateManager(overrideDir string) (*TemplateManager, error) {
	tm := NewTemplateManager()
	if err := tm.loadFS(defaultTemplates, "templates"); err != nil {
		return nil, err
	}
	if overrideDir != "" {
		if err := tm.LoadTemplates(overrideDir); err != nil {
			return nil, err
		}
	}
	return tm, nil
}

func (tm *TemplateManager) Render(templateName string, data TemplateData) (string, error) {
	tm.mutex.RLock()
	tpl, exists := tm.templates[templateName]
	tm.mutex.RUnlock()

	if !exists {
		return "", fmt.Errorf("template not found: %s", templateName)
	}

	var buf strings.Builder
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

func (tm *TemplateManager) AddTemplate(name string, templateStr string) error {
	tpl, err := template.New(name).Option("missingkey=error").Parse(templateStr)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	tm.mutex.Lock()
	tm.templates[name] = tpl
	tm.mutex.Unlock()
	return nil
}

// LoadTemplates загружает *.html из директории; имя шаблона - имя файла без расширения
func (tm *TemplateManager) LoadTemplates(dirPath string) error {
	return tm.loadFS(os.DirFS(dirPath), ".")
}

func (tm *TemplateManager) loadFS(fsys fs.FS, root string) error {
	return fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".html") {
			return nil
		}

		content, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("failed to read template file %s: %w", p, err)
		}

		name := strings.TrimSuffix(path.Base(p), ".html")
		if err := tm.AddTemplate(name, string(content)); err != nil {
			return fmt.Errorf("failed to add template %s: %w", name, err)
		}
		return nil
	})
}

// TemplateNames - отсортированный список загруженных шаблонов
func (tm *TemplateManager) TemplateNames() []string {
	tm.mutex.RLock()
	defer tm.mutex.RUnlock()

	names := make([]string, 0, len(tm.templates))
	for name := range tm.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
