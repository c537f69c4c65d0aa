package main

import (
	"math"
	"testing"
)

func TestCheckCollision(t *testing.T) {
	if !CheckCollision(0, 0, 10, 15, 0, 10) {
		t.Error("overlapping circles should collide")
	}
	if CheckCollision(0, 0, 10, 25, 0, 10) {
		t.Error("separated circles should not collide")
	}
	// Exactly touching counts as contact
	if !CheckCollision(0, 0, 10, 20, 0, 10) {
		t.Error("touching circles should collide")
	}
}

func TestPointSegmentDistance(t *testing.T) {
	// Perpendicular drop onto the segment
	d := PointSegmentDistance(5, 3, 0, 0, 10, 0)
	if math.Abs(d-3) > 1e-9 {
		t.Errorf("expected 3, got %f", d)
	}

	// Beyond the far endpoint: distance to the endpoint
	d = PointSegmentDistance(14, 3, 0, 0, 10, 0)
	if math.Abs(d-5) > 1e-9 {
		t.Errorf("expected 5, got %f", d)
	}

	// Degenerate segment
	d = PointSegmentDistance(3, 4, 0, 0, 0, 0)
	if math.Abs(d-5) > 1e-9 {
		t.Errorf("expected 5, got %f", d)
	}
}

func TestSpatialGridInsertQuery(t *testing.T) {
	var g SpatialGrid
	g.Insert(0, 0, EntityRef{Kind: KindMine, ID: "m1"})
	g.Insert(-HalfMapW, -HalfMapH, EntityRef{Kind: KindShip, ID: "p1"})
	g.Insert(HalfMapW, HalfMapH, EntityRef{Kind: KindShip, ID: "p2"})

	refs := g.Query(0, 0, 50)
	if len(refs) != 1 || refs[0].ID != "m1" {
		t.Fatalf("expected only m1 near origin, got %v", refs)
	}

	refs = g.Query(-HalfMapW+10, -HalfMapH+10, 50)
	found := false
	for _, ref := range refs {
		if ref.ID == "p1" {
			found = true
		}
		if ref.ID == "p2" {
			t.Error("far corner entity should not appear")
		}
	}
	if !found {
		t.Error("expected p1 near its corner")
	}
}

func TestSpatialGridClear(t *testing.T) {
	var g SpatialGrid
	g.Insert(100, 100, EntityRef{Kind: KindPowerup, ID: "k1"})
	g.Clear()
	if refs := g.Query(100, 100, 200); len(refs) != 0 {
		t.Errorf("expected empty grid after clear, got %v", refs)
	}
}

func TestSpatialGridQuerySpansCells(t *testing.T) {
	var g SpatialGrid
	g.Insert(SpatialCellSize*1.5, 0, EntityRef{Kind: KindMine, ID: "m1"})
	refs := g.Query(0, 0, SpatialCellSize*2)
	found := false
	for _, ref := range refs {
		if ref.ID == "m1" {
			found = true
		}
	}
	if !found {
		t.Error("query radius spanning cells should find the entity")
	}
}
