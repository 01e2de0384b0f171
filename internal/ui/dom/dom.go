// Package dom 定义笔记列表渲染所需的最小 DOM 操作集合。
//
// 这个接口没有 build tag：wasm 页面用 jsdom（syscall/js）实现，
// 原生构建（测试、CLI 快照）用 htmldom（golang.org/x/net/html）实现，渲染代码两边共用。
package dom

// Node 是可以挂载子节点的节点：元素或文档片段。
type Node interface {
	// AppendChild 追加子节点；child 是文档片段时，移动的是片段内的全部子节点。
	AppendChild(child Node) error
}

// Element 是渲染器会用到的元素操作。
type Element interface {
	Node
	SetTextContent(text string)
	// SetTabIndex 设置 tabIndex；-1 表示可被程序聚焦、但不参与 Tab 键顺序。
	SetTabIndex(i int)
	RemoveChildren()
}

// Document 是渲染器依赖的文档对象。
type Document interface {
	// GetElementByID 找不到时返回 nil。
	GetElementByID(id string) Element
	CreateElement(tag string) Element
	CreateDocumentFragment() Node
}
