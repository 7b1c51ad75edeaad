package audio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ReadCbin loads a .cbin recording: headerless big-endian int16 samples,
// interleaved when there are several channels. Sample rate and channel
// count come from the .rec file next to it. Only the first channel is
// returned, as raw integer counts: spectrogram thresholds for cbin songs
// are set on that scale.
func ReadCbin(path string) ([]float64, int, error) {
	rec, err := readRec(recPath(path))
	if err != nil {
		return nil, 0, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	raw, err := io.ReadAll(bufio.NewReader(f))
	if err != nil {
		return nil, 0, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(raw)%2 != 0 {
		return nil, 0, fmt.Errorf("%s: odd byte count %d", path, len(raw))
	}

	n := len(raw) / 2
	frames := n / rec.channels
	out := make([]float64, frames)
	for i := 0; i < frames; i++ {
		off := i * rec.channels * 2
		out[i] = float64(int16(binary.BigEndian.Uint16(raw[off : off+2])))
	}
	return out, rec.sampleRate, nil
}

type recInfo struct {
	sampleRate int
	channels   int
}

// recPath maps song.cbin to song.rec.
func recPath(cbinPath string) string {
	ext := filepath.Ext(cbinPath)
	return strings.TrimSuffix(cbinPath, ext) + ".rec"
}

func readRec(path string) (*recInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening .rec file: %w", err)
	}
	defer f.Close()

	info := &recInfo{channels: 1}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), "=")
		if !ok {
			continue
		}
		key = strings.ToUpper(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		switch key {
		case "ADFREQ":
			rate, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("%s: bad ADFREQ %q", path, value)
			}
			info.sampleRate = rate
		case "CHANS":
			chans, err := strconv.Atoi(value)
			if err != nil || chans < 1 {
				return nil, fmt.Errorf("%s: bad Chans %q", path, value)
			}
			info.channels = chans
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if info.sampleRate <= 0 {
		return nil, fmt.Errorf("%s: no ADFREQ entry", path)
	}
	return info, nil
}
