package assertion

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	serr "github.com/IvanChernomyrdin/go-gateway-dashboard/internal/shared/errors"
)

// MinKeyBits — минимальный размер RSA-ключа, который примет Signer.
const MinKeyBits = 2048

// KeyProvider отдаёт приватный ключ подписи.
//
// Ключ запрашивается один раз при создании Signer. Неявного пути по умолчанию нет:
// источник ключа всегда передаётся явно.
type KeyProvider interface {
	PrivateKey() (*rsa.PrivateKey, error)
}

// PEMKey — ключ в памяти (PEM, PKCS#1 или PKCS#8).
type PEMKey []byte

// PrivateKey разбирает PEM из памяти.
func (k PEMKey) PrivateKey() (*rsa.PrivateKey, error) {
	return ParsePrivateKeyPEM(k)
}

// EnvKey — имя переменной окружения, содержащей PEM.
//
// Литеральные последовательности `\n` заменяются на переводы строк,
// так ключ можно хранить в однострочном .env.
type EnvKey string

// PrivateKey читает PEM из переменной окружения.
func (k EnvKey) PrivateKey() (*rsa.PrivateKey, error) {
	name := string(k)
	v, ok := os.LookupEnv(name)
	if !ok || strings.TrimSpace(v) == "" {
		return nil, serr.NewValidationError("private_key_env", fmt.Sprintf("environment variable %s is not set", name))
	}
	return ParsePrivateKeyPEM([]byte(strings.ReplaceAll(v, `\n`, "\n")))
}

// FileKey — путь к PEM-файлу с ключом.
type FileKey string

// PrivateKey читает PEM из файла.
func (k FileKey) PrivateKey() (*rsa.PrivateKey, error) {
	path := string(k)
	if strings.TrimSpace(path) == "" {
		return nil, serr.NewValidationError("private_key_file", "path is empty")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &serr.ValidationError{Field: "private_key_file", Reason: "read key file", Err: err}
	}
	return ParsePrivateKeyPEM(raw)
}

// ParsePrivateKeyPEM разбирает RSA-ключ из PEM.
//
// Поддерживаются блоки "RSA PRIVATE KEY" (PKCS#1) и "PRIVATE KEY" (PKCS#8).
// Ключи короче MinKeyBits отклоняются.
func ParsePrivateKeyPEM(raw []byte) (*rsa.PrivateKey, error) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil, serr.NewValidationError("private_key", "key material is empty")
	}
	key, err := jwt.ParseRSAPrivateKeyFromPEM(raw)
	if err != nil {
		return nil, &serr.ValidationError{Field: "private_key", Reason: "parse RSA private key", Err: err}
	}
	if key.N.BitLen() < MinKeyBits {
		return nil, serr.NewValidationError("private_key", fmt.Sprintf("key is %d bits, need >= %d", key.N.BitLen(), MinKeyBits))
	}
	return key, nil
}

// GenerateKeyPair создаёт новую пару RSA-ключей.
//
// Возвращает:
//   - приватный ключ в PEM (PKCS#8, блок "PRIVATE KEY");
//   - публичный ключ в PEM (PKIX, блок "PUBLIC KEY") — его получает внешний Verifier.
func GenerateKeyPair(bits int) (privatePEM, publicPEM []byte, err error) {
	if bits < MinKeyBits {
		return nil, nil, serr.NewValidationError("bits", fmt.Sprintf("need >= %d", MinKeyBits))
	}
	key, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate private key: %w", err)
	}
	privDER, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal private key: %w", err)
	}
	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal public key: %w", err)
	}
	privatePEM = pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: privDER})
	publicPEM = pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})
	return privatePEM, publicPEM, nil
}

// PublicKeyPEM возвращает публичную часть ключа в PEM (PKIX).
func PublicKeyPEM(key *rsa.PrivateKey) ([]byte, error) {
	if key == nil {
		return nil, errors.New("nil private key")
	}
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal public key: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}), nil
}
