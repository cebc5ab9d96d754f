// Package widgets provides custom Fyne widgets for the visualizer window.
package widgets

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// XYPad wraps content and reports the pointer position over it.
// Mouse hover and touch drags are both reported, together with the pad size
// at the time of the move.
type XYPad struct {
	widget.BaseWidget

	content fyne.CanvasObject
	onMove  func(pos fyne.Position, size fyne.Size)
}

// NewXYPad creates a pad around content.
func NewXYPad(content fyne.CanvasObject, onMove func(pos fyne.Position, size fyne.Size)) *XYPad {
	p := &XYPad{
		content: content,
		onMove:  onMove,
	}
	p.ExtendBaseWidget(p)
	return p
}

// CreateRenderer implements fyne.Widget.
func (p *XYPad) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(p.content)
}

// MinSize lets the pad shrink to nothing.
func (p *XYPad) MinSize() fyne.Size {
	return fyne.NewSize(0, 0)
}

// SetOnMove replaces the move callback.
func (p *XYPad) SetOnMove(onMove func(pos fyne.Position, size fyne.Size)) {
	p.onMove = onMove
}

func (p *XYPad) moved(pos fyne.Position) {
	if p.onMove != nil {
		p.onMove(pos, p.Size())
	}
}

// MouseIn implements desktop.Hoverable.
func (p *XYPad) MouseIn(e *desktop.MouseEvent) {
	p.moved(e.Position)
}

// MouseMoved implements desktop.Hoverable.
func (p *XYPad) MouseMoved(e *desktop.MouseEvent) {
	p.moved(e.Position)
}

// MouseOut implements desktop.Hoverable.
func (p *XYPad) MouseOut() {}

// Dragged implements fyne.Draggable so touch screens can steer the pad.
func (p *XYPad) Dragged(e *fyne.DragEvent) {
	p.moved(e.Position)
}

// DragEnd implements fyne.Draggable.
func (p *XYPad) DragEnd() {}

// Ensure XYPad implements the required interfaces
var _ desktop.Hoverable = (*XYPad)(nil)
var _ fyne.Draggable = (*XYPad)(nil)
