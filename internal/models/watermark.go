package models

import "fmt"

type Position string

const (
	PositionTopLeft     Position = "top-left"
	PositionTopRight    Position = "top-right"
	PositionBottomLeft  Position = "bottom-left"
	PositionBottomRight Position = "bottom-right"
	PositionCenter      Position = "center"
)

// Positions lists every accepted anchor, in help-text order.
var Positions = []Position{
	PositionTopLeft,
	PositionTopRight,
	PositionBottomLeft,
	PositionBottomRight,
	PositionCenter,
}

// ParsePosition returns PositionBottomRight and an error for unknown names.
func ParsePosition(s string) (Position, error) {
	for _, p := range Positions {
		if string(p) == s {
			return p, nil
		}
	}
	return PositionBottomRight, fmt.Errorf("unknown position %q", s)
}

type WatermarkKind string

const (
	KindText  WatermarkKind = "text"
	KindImage WatermarkKind = "image"
	KindDate  WatermarkKind = "date"
)

// WatermarkRequest carries the form fields of a watermark upload.
type WatermarkRequest struct {
	Text     string  `form:"text"`
	FontSize int     `form:"font_size"`
	Color    string  `form:"color"`
	Opacity  *int    `form:"opacity"`
	Position string  `form:"position"`
	Scale    float64 `form:"scale"`
}
