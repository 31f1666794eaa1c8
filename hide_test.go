package stega

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestFiles(t *testing.T, payload []byte) (dir, imgPath, filePath string) {
	t.Helper()
	dir = t.TempDir()
	imgPath = filepath.Join(dir, "in.png")
	filePath = filepath.Join(dir, "secret.txt")
	require.NoError(t, SaveImage(makeTestImage(256, 128), imgPath))
	require.NoError(t, os.WriteFile(filePath, payload, 0644))
	return
}

func TestHideDig(t *testing.T) {
	payload := []byte(testMakrilli)
	for _, tc := range []struct {
		name     string
		key      string
		compress bool
		ecc      uint8
		out      string
	}{
		{name: "plain", out: "out.png"},
		{name: "encrypted", key: "zappadam", out: "out.png"},
		{name: "compressed_bmp", compress: true, out: "out.bmp"},
		{name: "both_qoi", key: "zappadam", compress: true, out: "out.qoi"},
		{name: "ecc", key: "zappadam", ecc: 3, out: "out.png"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			dir, imgPath, filePath := writeTestFiles(t, payload)
			outPath := filepath.Join(dir, tc.out)
			digPath := filepath.Join(dir, "dug.txt")

			var log bytes.Buffer
			require.NoError(t, Hide(&HideConfig{
				ImagePath:            imgPath,
				FilePath:             filePath,
				OutPath:              outPath,
				BitsPerChannel:       1,
				Key:                  tc.key,
				Compress:             tc.compress,
				MaxCorrectableErrors: tc.ecc,
				OutputLevel:          OutputDebug,
				Output:               &log,
			}))
			assert.Contains(t, log.String(), "All done!")
			assert.Contains(t, log.String(), "Header: version 1")
			if tc.ecc > 0 {
				assert.Contains(t, log.String(), "binary BCH code")
			}

			require.NoError(t, Dig(DigConfig{
				ImagePath:            outPath,
				OutPath:              digPath,
				Key:                  tc.key,
				Compress:             tc.compress,
				MaxCorrectableErrors: tc.ecc,
				OutputLevel:          OutputNone,
				Output:               &log,
			}))
			got, err := os.ReadFile(digPath)
			require.NoError(t, err)
			assert.Equal(t, payload, got)
		})
	}
}

func TestHideQuiet(t *testing.T) {
	dir, imgPath, filePath := writeTestFiles(t, []byte("x"))
	var log bytes.Buffer
	require.NoError(t, Hide(&HideConfig{
		ImagePath:      imgPath,
		FilePath:       filePath,
		OutPath:        filepath.Join(dir, "out.png"),
		BitsPerChannel: 2,
		OutputLevel:    OutputNone,
		Output:         &log,
	}))
	assert.Empty(t, log.String())
}

func TestHideValidation(t *testing.T) {
	dir, imgPath, filePath := writeTestFiles(t, []byte("x"))
	out := filepath.Join(dir, "out.png")
	for name, config := range map[string]HideConfig{
		"no_image": {FilePath: filePath, OutPath: out, BitsPerChannel: 1},
		"no_file":  {ImagePath: imgPath, OutPath: out, BitsPerChannel: 1},
		"no_out":   {ImagePath: imgPath, FilePath: filePath, BitsPerChannel: 1},
		"lossy":    {ImagePath: imgPath, FilePath: filePath, OutPath: filepath.Join(dir, "out.jpg"), BitsPerChannel: 1},
		"bpc_zero": {ImagePath: imgPath, FilePath: filePath, OutPath: out},
		"bpc_nine": {ImagePath: imgPath, FilePath: filePath, OutPath: out, BitsPerChannel: 9},
		"ecc_high": {ImagePath: imgPath, FilePath: filePath, OutPath: out, BitsPerChannel: 1, MaxCorrectableErrors: 200},
	} {
		config := config
		err := Hide(&config)
		assert.Equal(t, KindInvalidFormat, KindOf(err), name)
	}
	_, err := os.Stat(out)
	assert.True(t, os.IsNotExist(err))
}

func TestHideTooLargeWritesNothing(t *testing.T) {
	dir, imgPath, filePath := writeTestFiles(t, make([]byte, 256*128))
	out := filepath.Join(dir, "out.png")

	err := Hide(&HideConfig{ImagePath: imgPath, FilePath: filePath, OutPath: out, BitsPerChannel: 1, Output: &bytes.Buffer{}})
	assert.Equal(t, KindCapacityExceeded, KindOf(err))
	_, err = os.Stat(out)
	assert.True(t, os.IsNotExist(err))
}

func TestDigPlainImage(t *testing.T) {
	dir, imgPath, _ := writeTestFiles(t, nil)
	err := Dig(DigConfig{ImagePath: imgPath, OutPath: filepath.Join(dir, "x"), Output: &bytes.Buffer{}})
	assert.Equal(t, KindMagicMismatch, KindOf(err))

	err = Dig(DigConfig{ImagePath: filepath.Join(dir, "missing.png"), OutPath: filepath.Join(dir, "x"), Output: &bytes.Buffer{}})
	assert.Equal(t, KindSourceLoad, KindOf(err))

	err = Dig(DigConfig{OutPath: filepath.Join(dir, "x")})
	assert.Equal(t, KindInvalidFormat, KindOf(err))
}

func TestParseOutputLevel(t *testing.T) {
	for _, l := range []OutputLevel{OutputNone, OutputSteps, OutputInfo, OutputDebug} {
		got, err := ParseOutputLevel(l.String())
		require.NoError(t, err)
		assert.Equal(t, l, got)
	}
	_, err := ParseOutputLevel("loud")
	assert.Equal(t, KindInvalidFormat, KindOf(err))
}
