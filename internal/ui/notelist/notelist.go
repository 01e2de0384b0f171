// Package notelist 把笔记名列表渲染到页面容器中。
//
// 每次渲染都是整体替换：先清空容器，再一次性追加新的一批列表项。不做 diff，也不保留焦点、滚动位置。
package notelist

import (
	"errors"
	"fmt"

	"never-notes/internal/domain/model"
	"never-notes/internal/ui/dom"
)

// ErrContainerNotFound 表示文档里没有列表容器。
var ErrContainerNotFound = errors.New("notelist: container not found")

// Renderer 绑定一个文档与容器 id，本身不保存任何渲染状态。
type Renderer struct {
	doc         dom.Document
	containerID string
}

// New 使用默认容器 id（note_list）。
func New(doc dom.Document) *Renderer {
	return NewWithContainer(doc, model.NoteListContainerID)
}

func NewWithContainer(doc dom.Document, containerID string) *Renderer {
	return &Renderer{doc: doc, containerID: containerID}
}

// Render 为每个名字生成一个 tabIndex=-1 的 <li>，先组装进文档片段，再清空容器并一次性追加。
// names 为空时容器被清空，不算错误。
func (r *Renderer) Render(names []string) error {
	frag := r.doc.CreateDocumentFragment()
	for _, name := range names {
		li := r.doc.CreateElement("li")
		li.SetTextContent(name)
		li.SetTabIndex(-1)
		if err := frag.AppendChild(li); err != nil {
			return fmt.Errorf("append item %q: %w", name, err)
		}
	}

	container := r.doc.GetElementByID(r.containerID)
	if container == nil {
		return fmt.Errorf("%w: #%s", ErrContainerNotFound, r.containerID)
	}
	container.RemoveChildren()
	if err := container.AppendChild(frag); err != nil {
		return fmt.Errorf("mount items: %w", err)
	}
	return nil
}
