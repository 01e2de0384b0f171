package page

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"never-notes/internal/ui/bridge"
	"never-notes/internal/ui/dom/htmldom"
	"never-notes/internal/ui/notelist"
)

func newPage(t *testing.T) (*Page, *[]string, *htmldom.Document) {
	t.Helper()
	var sent []string
	host := bridge.HostFunc(func(p string) error {
		sent = append(sent, p)
		return nil
	})
	doc, err := htmldom.ParseString(`<html><body><ul id="note_list"></ul></body></html>`)
	require.NoError(t, err)
	return New(bridge.NewClient(host), notelist.New(doc)), &sent, doc
}

func TestStart_SendsUpdateOnce(t *testing.T) {
	p, sent, _ := newPage(t)

	require.NoError(t, p.Start())
	require.NoError(t, p.Start())
	assert.Equal(t, []string{`{"type":"update"}`}, *sent)
}

func TestStart_MissingHost(t *testing.T) {
	doc, err := htmldom.ParseString(`<ul id="note_list"></ul>`)
	require.NoError(t, err)
	p := New(bridge.NewClient(nil), notelist.New(doc))

	assert.ErrorIs(t, p.Start(), bridge.ErrHostUnavailable)
}

func TestUpdateNoteList_RoundTrip(t *testing.T) {
	p, sent, doc := newPage(t)
	require.NoError(t, p.Start())
	require.Len(t, *sent, 1)

	require.NoError(t, p.UpdateNoteList([]string{"Groceries", "Todo"}))

	el := doc.GetElementByID("note_list").(*htmldom.Element)
	got := htmldom.ChildElements(el.Node())
	require.Len(t, got, 2)
	assert.Equal(t, "Groceries", htmldom.TextContent(got[0]))
	assert.Equal(t, "Todo", htmldom.TextContent(got[1]))
	// 渲染不会反向触发请求
	assert.Len(t, *sent, 1)
}
