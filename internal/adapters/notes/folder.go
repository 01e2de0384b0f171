package notes

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/text/unicode/norm"

	"never-notes/internal/domain/model"
	"never-notes/internal/platform/hash"
)

// ErrNoteNotFound 表示按名字找不到笔记。
var ErrNoteNotFound = errors.New("note not found")

// Folder 从笔记目录读取笔记。只认 .txt / .md 文件，子目录不递归。
type Folder struct {
	fs     afero.Fs
	dir    string
	logger *slog.Logger
}

func NewFolder(fsys afero.Fs, dir string, logger *slog.Logger) *Folder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Folder{fs: fsys, dir: dir, logger: logger}
}

// IsNoteFile 按扩展名判断（区分大小写）。
func IsNoteFile(name string) bool {
	return strings.HasSuffix(name, ".txt") || strings.HasSuffix(name, ".md")
}

// List 读取目录下全部笔记，按名字排序。
// 名字做 NFC 归一化：macOS 上的文件名通常是 NFD，不归一化时同一个标题在页面上可能显示/比较不一致。
func (f *Folder) List(ctx context.Context) ([]model.Note, error) {
	entries, err := afero.ReadDir(f.fs, f.dir)
	if err != nil {
		return nil, fmt.Errorf("read notes dir %s: %w", f.dir, err)
	}

	out := make([]model.Note, 0, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !e.Mode().IsRegular() {
			continue
		}
		if !IsNoteFile(e.Name()) {
			f.logger.Info("skipping non-note file", "name", e.Name())
			continue
		}
		n, err := f.read(e)
		if err != nil {
			return nil, err
		}
		f.logger.Debug("found note", "name", n.Name, "size", n.SizeBytes)
		out = append(out, n)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Get 按（归一化后的）名字读取一条笔记。
func (f *Folder) Get(ctx context.Context, name string) (model.Note, error) {
	name = norm.NFC.String(strings.TrimSpace(name))
	if name == "" || strings.ContainsAny(name, `/\`) || !IsNoteFile(name) {
		return model.Note{}, fmt.Errorf("%w: %q", ErrNoteNotFound, name)
	}

	all, err := f.List(ctx)
	if err != nil {
		return model.Note{}, err
	}
	for _, n := range all {
		if n.Name == name {
			return n, nil
		}
	}
	return model.Note{}, fmt.Errorf("%w: %q", ErrNoteNotFound, name)
}

func (f *Folder) read(info fs.FileInfo) (model.Note, error) {
	path := filepath.Join(f.dir, info.Name())
	raw, err := afero.ReadFile(f.fs, path)
	if err != nil {
		return model.Note{}, fmt.Errorf("read note %s: %w", info.Name(), err)
	}
	return model.Note{
		Name:       norm.NFC.String(info.Name()),
		Path:       path,
		Content:    raw,
		SizeBytes:  int64(len(raw)),
		SHA256:     hash.Bytes(raw),
		ModifiedAt: info.ModTime().Unix(),
	}, nil
}
