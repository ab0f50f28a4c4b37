package processor

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

var errFontNotFound = errors.New("font not found")

// FaceLoader lazily produces a face of the requested pixel size.
type FaceLoader interface {
	Name() string
	Face(size float64) (font.Face, error)
}

// FontChain tries its loaders in order and settles on the first that works.
// The bitmap face at the end of every chain cannot fail.
type FontChain struct {
	loaders []FaceLoader
	logger  *zap.Logger
}

// NewFontChain prefers the named font files (bare names are searched in dirs
// and the platform font directories), then the embedded Go Regular face.
func NewFontChain(logger *zap.Logger, names []string, dirs []string) *FontChain {
	loaders := make([]FaceLoader, 0, len(names)+1)
	for _, name := range names {
		loaders = append(loaders, &FileFont{name: name, dirs: dirs})
	}
	loaders = append(loaders, &ParsedFont{name: "goregular", data: goregular.TTF})
	return NewFontChainFrom(logger, loaders...)
}

func NewFontChainFrom(logger *zap.Logger, loaders ...FaceLoader) *FontChain {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FontChain{loaders: loaders, logger: logger}
}

// Face returns a face at size from the first loader that succeeds.
func (c *FontChain) Face(size float64) font.Face {
	if c != nil {
		for _, l := range c.loaders {
			face, err := l.Face(size)
			if err == nil {
				return face
			}
			c.logger.Debug("Font unavailable, trying next",
				zap.String("font", l.Name()),
				zap.Error(err))
		}
	}
	return basicfont.Face7x13
}

// ParsedFont serves faces from in-memory TrueType/OpenType data.
type ParsedFont struct {
	name string
	data []byte

	once sync.Once
	font *opentype.Font
	err  error
}

func (f *ParsedFont) Name() string {
	return f.name
}

func (f *ParsedFont) Face(size float64) (font.Face, error) {
	f.once.Do(func() {
		f.font, f.err = opentype.Parse(f.data)
	})
	if f.err != nil {
		return nil, f.err
	}
	return newFace(f.font, size)
}

// FileFont serves faces from a font file found on disk.
type FileFont struct {
	name string
	dirs []string

	once sync.Once
	font *opentype.Font
	err  error
}

func (f *FileFont) Name() string {
	return f.name
}

func (f *FileFont) Face(size float64) (font.Face, error) {
	f.once.Do(func() {
		path, err := findFont(f.name, f.dirs)
		if err != nil {
			f.err = err
			return
		}
		data, err := os.ReadFile(path)
		if err != nil {
			f.err = fmt.Errorf("failed to read font: %w", err)
			return
		}
		f.font, f.err = opentype.Parse(data)
	})
	if f.err != nil {
		return nil, f.err
	}
	return newFace(f.font, size)
}

// newFace uses 72 DPI so that size is in pixels.
func newFace(ft *opentype.Font, size float64) (font.Face, error) {
	return opentype.NewFace(ft, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// findFont resolves name to a file. Names containing a directory are used
// as-is; bare names are matched case-insensitively under the search dirs.
func findFont(name string, extra []string) (string, error) {
	if filepath.Base(name) != name {
		if _, err := os.Stat(name); err != nil {
			return "", err
		}
		return name, nil
	}

	dirs := append(append([]string{}, extra...), systemFontDirs()...)
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		var found string
		_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if !d.IsDir() && strings.EqualFold(d.Name(), name) {
				found = path
				return fs.SkipAll
			}
			return nil
		})
		if found != "" {
			return found, nil
		}
	}

	return "", fmt.Errorf("%w: %s", errFontNotFound, name)
}

func systemFontDirs() []string {
	home, _ := os.UserHomeDir()

	switch runtime.GOOS {
	case "windows":
		windir := os.Getenv("WINDIR")
		if windir == "" {
			windir = `C:\Windows`
		}
		return []string{filepath.Join(windir, "Fonts")}
	case "darwin":
		return []string{
			"/System/Library/Fonts",
			"/Library/Fonts",
			filepath.Join(home, "Library", "Fonts"),
		}
	default:
		return []string{
			"/usr/share/fonts",
			"/usr/local/share/fonts",
			filepath.Join(home, ".fonts"),
			filepath.Join(home, ".local", "share", "fonts"),
		}
	}
}
