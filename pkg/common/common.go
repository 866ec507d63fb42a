package common

import (
	"crypto/sha256"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	ENABLED  = "enabled"
	DISABLED = "disabled"
)

var snowflakeNode *snowflake.Node

func init() {
	rand.Seed(time.Now().UnixNano())
	var err error
	snowflakeNode, err = snowflake.NewNode(int64(rand.Intn(1023) + 1))
	if err != nil {
		panic(err)
	}
}

// UUIDint64 returns a snowflake based int64 id
func UUIDint64() int64 {
	return snowflakeNode.Generate().Int64()
}

// UUID returns a snowflake based string id
func UUID() string {
	return snowflakeNode.Generate().String()
}

// GetSecretSalt reads the password salt from the environment, with a
// fixed development fallback.
func GetSecretSalt() string {
	salt := os.Getenv("STUDIOCMS_SECRET_SALT")
	if salt == "" {
		salt = "studiocms-secret"
	}
	return salt
}

// Sha256HashWithSalt hashes src with the given salt
func Sha256HashWithSalt(src string, salt string) string {
	h := sha256.New()
	h.Write([]byte(src + salt))
	return fmt.Sprintf("%x", h.Sum(nil))
}

// InSlice reports whether v is present in vals
func InSlice(v string, vals []string) bool {
	for _, s := range vals {
		if s == v {
			return true
		}
	}
	return false
}

// FileExists reports whether path exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// TrimOrDefault returns the trimmed value or def when empty
func TrimOrDefault(v, def string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return def
	}
	return v
}
