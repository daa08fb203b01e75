package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodedImage_DataURI(t *testing.T) {
	t.Parallel()

	img := EncodedImage{MIMEType: "image/png", Data: []byte("hi")}
	assert.Equal(t, "aGk=", img.Base64())
	assert.Equal(t, "data:image/png;base64,aGk=", img.DataURI())

	// MIMEタイプ未設定はJPEG扱い
	assert.Equal(t, "data:image/jpeg;base64,aGk=", EncodedImage{Data: []byte("hi")}.DataURI())
}

func TestStripDataURIPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"jpeg data uri", "data:image/jpeg;base64,/9j/4AAQ", "/9j/4AAQ"},
		{"png data uri", "data:image/png;base64,iVBOR", "iVBOR"},
		{"raw base64", "iVBOR", "iVBOR"},
		{"prefix only", "data:image/jpeg;base64,", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, StripDataURIPrefix(tt.in))
		})
	}
}

func TestAnalysisResult_Totals(t *testing.T) {
	t.Parallel()

	r := AnalysisResult{
		Ingredients: []Ingredient{
			{Name: "rice", Calories: 200.4},
			{Name: "chicken", Calories: 150.3},
		},
		OverallAccuracyPercentage: 69.9,
	}
	assert.InDelta(t, 350.7, r.TotalCalories(), 1e-9)
	assert.Equal(t, int64(351), r.RoundedTotalCalories())
	assert.True(t, r.IsLowAccuracy())

	r.OverallAccuracyPercentage = 70
	assert.False(t, r.IsLowAccuracy())

	assert.Zero(t, AnalysisResult{}.TotalCalories())
}
