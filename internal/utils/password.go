package utils

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// dummyHashes holds one throwaway hash per cost, used by BurnPasswordCheck.
var dummyHashes sync.Map

// HashPassword returns a bcrypt hash of plain using the given cost. Each call
// draws a fresh salt, so hashing the same password twice yields different
// strings.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), normalizeCost(cost))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword compares a stored bcrypt hash with a plain password in
// constant time. A malformed hash yields false, same as a wrong password.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// BurnPasswordCheck spends the same CPU time as VerifyPassword on a hash of
// the given cost and discards the result. Login calls it for unknown
// usernames so timing does not reveal which accounts exist.
func BurnPasswordCheck(plain string, cost int) {
	cost = normalizeCost(cost)
	v, ok := dummyHashes.Load(cost)
	if !ok {
		h, err := bcrypt.GenerateFromPassword([]byte("contentgen-unknown-account"), cost)
		if err != nil {
			return
		}
		v, _ = dummyHashes.LoadOrStore(cost, h)
	}
	_ = bcrypt.CompareHashAndPassword(v.([]byte), []byte(plain))
}

func normalizeCost(cost int) int {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return bcrypt.DefaultCost
	}
	return cost
}
