package model

import (
	"strconv"
	"strings"

	"never-notes/internal/platform/hash"
)

// 页面与宿主之间约定的全局函数名。
// 两端都从这里取值，避免一边改名另一边忘记同步。
const (
	// HostInvokeFunction 由宿主注入到页面的全局函数，页面通过它把 JSON 文本交给宿主。
	HostInvokeFunction = "hostInvoke"
	// RenderFunction 由页面暴露的全局函数，宿主拿到笔记列表后调用它刷新列表。
	RenderFunction = "update_note_list"
	// NoteListContainerID 页面中承载笔记列表的容器元素 id。
	NoteListContainerID = "note_list"
)

// RequestType 表示页面发往宿主的请求类型。
type RequestType string

const (
	// RequestUpdate 页面已就绪，请宿主推送当前笔记名列表。
	RequestUpdate RequestType = "update"
)

// Request 是页面发往宿主的唯一消息结构，序列化后即丢弃。
type Request struct {
	Type RequestType `json:"type"`
}

// Note 表示笔记目录下的一条笔记文件。
type Note struct {
	Name       string // 文件名（已做 NFC 归一化），同时也是页面展示的标题
	Path       string // 相对 afero 根的路径
	Content    []byte
	SizeBytes  int64
	SHA256     string
	ModifiedAt int64 // unix 秒
}

// IsMarkdown 判断笔记是否按 Markdown 渲染（否则按纯文本展示）。
func (n Note) IsMarkdown() bool {
	return strings.HasSuffix(n.Name, ".md")
}

// NoteNames 按原顺序抽取笔记名。
func NoteNames(notes []Note) []string {
	names := make([]string, 0, len(notes))
	for _, n := range notes {
		names = append(names, n.Name)
	}
	return names
}

// HostEventStatus 表示宿主对一条页面请求的处理结果。
type HostEventStatus string

const (
	// HostEventHandled 请求已被识别并处理（例如已推送列表）。
	HostEventHandled HostEventStatus = "handled"
	// HostEventIgnored 请求可解析但类型未知或缺失，仅记录日志。
	HostEventIgnored HostEventStatus = "ignored"
	// HostEventFailed 处理过程中出错。
	HostEventFailed HostEventStatus = "failed"
)

// HostEvent 表示宿主事件流水中的一条记录（对应 host_events 表）。
type HostEvent struct {
	EventID       string
	RequestType   string // 原始 type 字段，缺失时为空
	Status        HostEventStatus
	NoteCount     int
	DetailJSON    []byte
	OccurredAt    int64
	ChainPrevHash string
	ChainHash     string
}

// Detail 返回参与哈希的 detail 文本；空 detail 视为 "{}"。
func (e HostEvent) Detail() string {
	if len(e.DetailJSON) == 0 {
		return "{}"
	}
	return string(e.DetailJSON)
}

// ComputeChainHash 以上一条记录的 chain_hash 为前缀计算本条记录的 chain_hash。
func (e HostEvent) ComputeChainHash(prev string) string {
	return hash.Text(
		prev,
		e.EventID,
		e.RequestType,
		string(e.Status),
		strconv.Itoa(e.NoteCount),
		strconv.FormatInt(e.OccurredAt, 10),
		e.Detail(),
	)
}
