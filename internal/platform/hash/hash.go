package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Text 将多个字段按换行拼接后计算 SHA-256。
// 用于宿主事件流水的 chain_hash。
func Text(parts ...string) string {
	h := sha256.New()
	for i, p := range parts {
		if i > 0 {
			_, _ = h.Write([]byte("\n"))
		}
		_, _ = h.Write([]byte(strings.TrimSpace(p)))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Bytes 计算内存数据的 SHA-256（笔记内容、导出的 PDF）。
func Bytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
