package textenc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect_PlainUTF8(t *testing.T) {
	result := Detect([]byte("Date,Amount,Description\n2024-01-01,10.00,Coffee\n"))
	assert.Equal(t, "utf-8", result.Encoding)
	assert.Contains(t, result.Text, "Coffee")
}

func TestDetect_UTF8BOM(t *testing.T) {
	raw := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Date,Amount\n2024-01-01,10.00\n")...)
	result := Detect(raw)
	assert.Equal(t, "utf-8-sig", result.Encoding)
	assert.True(t, result.Confidence > 0.9)
}

func TestDetect_EmptyFile(t *testing.T) {
	result := Detect(nil)
	assert.Equal(t, 0.7, result.Confidence)
	assert.Equal(t, "", result.Text)
}

func TestDetect_Windows1252AccentedChars(t *testing.T) {
	// 'é' in windows-1252 is 0xE9, a single byte.
	raw := []byte{'D', 'a', 't', 'e', ',', 'D', 'e', 's', 'c', 'r', 'i', 0xE9, 0xE7, 0xE3, 'o', '\n'}
	result := Detect(raw)
	assert.NotEmpty(t, result.Encoding)
	assert.NotContains(t, result.Text, string(rune(0xFFFD)))
}
