package booking

import (
	"context"
	"crypto/rand"
	"fmt"
)

const (
	codeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	codeLength   = 4
	codeAttempts = 5
)

func randomCode(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf), nil
}

// newAccessCode issues a short shared secret for the booking. Collisions are
// checked against stored codes and retried a bounded number of times; on
// exhaustion a clock-derived numeric suffix makes the code unique enough.
func (s *Service) newAccessCode(ctx context.Context) (string, error) {
	for i := 0; i < codeAttempts; i++ {
		code, err := randomCode(codeLength)
		if err != nil {
			return "", err
		}
		taken, err := s.repo.CodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}

	code, err := randomCode(codeLength)
	if err != nil {
		return "", err
	}
	suffix := s.clock.Now().UnixMilli() % 10000
	return fmt.Sprintf("%s%04d", code, suffix), nil
}
