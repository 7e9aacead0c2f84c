package models

import "testing"

func TestNewGLTFLoaderDefaults(t *testing.T) {
	loader := NewGLTFLoader()
	if !loader.CalculateNormals {
		t.Error("CalculateNormals should default to true")
	}
	if loader.SmoothNormals {
		t.Error("SmoothNormals should default to false")
	}
}

func TestLoadGLBInvalidPath(t *testing.T) {
	_, err := LoadGLB("/nonexistent/path/model.glb")
	if err == nil {
		t.Error("expected error for nonexistent file")
	}
}
