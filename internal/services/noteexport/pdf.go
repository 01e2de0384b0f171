package noteexport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"never-notes/internal/domain/model"
	"never-notes/internal/platform/hash"
)

// 笔记索引 PDF：把当前笔记目录里的笔记名、大小、修改时间、SHA-256 列成一份可归档的清单。

type Options struct {
	OutputDir string
	NotesDir  string // 仅用于写进 PDF 抬头
}

type Result struct {
	PDFPath     string   `json:"pdf_path"`
	PDFSHA256   string   `json:"pdf_sha256"`
	NoteCount   int      `json:"note_count"`
	Warnings    []string `json:"warnings,omitempty"`
	GeneratedAt int64    `json:"generated_at"`
}

const maxRows = 2000

// ExportPDF 生成笔记索引 PDF 并写入 opts.OutputDir。
func ExportPDF(ctx context.Context, notes []model.Note, opts Options) (*Result, error) {
	outDir := strings.TrimSpace(opts.OutputDir)
	if outDir == "" {
		return nil, errors.New("output_dir is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	warnings := []string{}
	rows := notes
	if len(rows) > maxRows {
		rows = rows[:maxRows]
		warnings = append(warnings, fmt.Sprintf("note list truncated to %d of %d", maxRows, len(notes)))
	}

	now := time.Now().Unix()
	pdf, utf8OK := buildPDF(rows, len(notes), opts, now)
	if !utf8OK {
		warnings = append(warnings, "pdf utf8 font not available; non-ascii text may be replaced with '?'")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir export dir: %w", err)
	}
	pdfPath := filepath.Join(outDir, fmt.Sprintf("note_index_%d.pdf", now))
	if err := os.WriteFile(pdfPath, buf.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}

	return &Result{
		PDFPath:     pdfPath,
		PDFSHA256:   hash.Bytes(buf.Bytes()),
		NoteCount:   len(notes),
		Warnings:    warnings,
		GeneratedAt: now,
	}, nil
}

func buildPDF(notes []model.Note, total int, opts Options, generatedAt int64) (*gofpdf.Fpdf, bool) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 14, 14)
	pdf.SetAutoPageBreak(true, 14)
	pdf.SetTitle("NeVeR - Note Index", false)

	fontFamily, utf8OK := initPDFUnicodeFont(pdf)

	pdf.AddPage()

	pdf.SetFont(fontFamily, "B", 16)
	pdf.CellFormat(0, 9, "NeVeR - Note Index", "", 1, "L", false, 0, "")

	pdf.SetFont(fontFamily, "", 10)
	pdf.SetTextColor(60, 60, 60)
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated at: %s", fmtTime(generatedAt)), "", 1, "L", false, 0, "")
	if dir := strings.TrimSpace(opts.NotesDir); dir != "" {
		pdf.CellFormat(0, 6, fmt.Sprintf("Folder: %s", safeText(dir, utf8OK)), "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(0, 6, fmt.Sprintf("Notes: %d", total), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	if len(notes) == 0 {
		pdf.SetTextColor(90, 90, 90)
		pdf.MultiCell(0, 5, "(empty)", "", "L", false)
		return pdf, utf8OK
	}

	for i, n := range notes {
		pdf.SetFont(fontFamily, "B", 11)
		pdf.SetTextColor(20, 20, 20)
		pdf.CellFormat(0, 6, fmt.Sprintf("%d. %s", i+1, safeText(n.Name, utf8OK)), "", 1, "L", false, 0, "")

		pdf.SetFont(fontFamily, "", 9)
		pdf.SetTextColor(60, 60, 60)
		pdf.CellFormat(0, 4.5, fmt.Sprintf("size=%d bytes  modified=%s", n.SizeBytes, fmtTime(n.ModifiedAt)), "", 1, "L", false, 0, "")
		pdf.CellFormat(0, 4.5, "sha256="+n.SHA256, "", 1, "L", false, 0, "")
		pdf.Ln(1)
	}
	return pdf, utf8OK
}

func fmtTime(ts int64) string {
	if ts <= 0 {
		return "-"
	}
	return time.Unix(ts, 0).Format("2006-01-02 15:04:05")
}

// safeText 在没有 UTF-8 字体时把非 ASCII 字符替换为 '?'，保证 PDF 一定能生成。
func safeText(s string, utf8OK bool) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\t", " ")
	s = strings.TrimSpace(s)
	if utf8OK {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= 32 && r <= 126 {
			b.WriteRune(r)
		} else {
			b.WriteRune('?')
		}
	}
	return b.String()
}

// initPDFUnicodeFont 尝试加载 UTF-8 字体（TrueType）。
// NEVER_PDF_FONT 优先，其次探测常见系统字体，都失败则回退 Helvetica。
func initPDFUnicodeFont(pdf *gofpdf.Fpdf) (family string, utf8OK bool) {
	const familyName = "unicode"
	candidates := []string{}

	if v := strings.TrimSpace(os.Getenv("NEVER_PDF_FONT")); v != "" {
		candidates = append(candidates, v)
	}

	switch runtime.GOOS {
	case "darwin":
		candidates = append(candidates,
			"/System/Library/Fonts/Supplemental/Arial Unicode.ttf",
			"/System/Library/Fonts/Supplemental/AppleGothic.ttf",
		)
	case "windows":
		candidates = append(candidates,
			`C:\Windows\Fonts\arialuni.ttf`,
			`C:\Windows\Fonts\simhei.ttf`,
		)
	default:
		candidates = append(candidates,
			"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
			"/usr/share/fonts/truetype/noto/NotoSans-Regular.ttf",
		)
	}

	for _, p := range candidates {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		pdf.AddUTF8Font(familyName, "", p)
		if pdf.Err() {
			pdf.ClearError()
			continue
		}
		pdf.AddUTF8Font(familyName, "B", p)
		if pdf.Err() {
			pdf.ClearError()
		}
		return familyName, true
	}

	return "Helvetica", false
}
