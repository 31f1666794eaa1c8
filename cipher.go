package stega

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
)

// ivSeed is hashed to produce the IV for every encryption.
//
// The IV is the same for every message and every key. Under CFB this leaks the XOR of the first
// differing blocks of two messages hidden with the same passphrase. It is kept because containers
// written with it must stay readable; a hardened format would store a random IV in the header.
const ivSeed = "stega initialization vector"

// Cipher is a symmetric cipher keyed with a 32-byte key and an IV.
// Decrypting with the wrong key must not fail; integrity is the container CRC's job.
type Cipher interface {
	Encrypt(data, key, iv []byte) ([]byte, error)
	Decrypt(data, key, iv []byte) ([]byte, error)
}

// AES256CFB is the default Cipher: AES-256 in CFB mode.
type AES256CFB struct{}

func (AES256CFB) Encrypt(data, key, iv []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(data))
	cipher.NewCFBEncrypter(block, iv).XORKeyStream(out, data)
	return out, nil
}

func (AES256CFB) Decrypt(data, key, iv []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(data))
	cipher.NewCFBDecrypter(block, iv).XORKeyStream(out, data)
	return out, nil
}

// DeriveKey turns a passphrase into a 256-bit key: SHA-256(passphrase).
func DeriveKey(passphrase string) []byte {
	sum := sha256.Sum256([]byte(passphrase))
	return sum[:]
}

// DeriveIV returns the fixed IV: the first block of SHA-256(ivSeed).
func DeriveIV() []byte {
	sum := sha256.Sum256([]byte(ivSeed))
	return sum[:aes.BlockSize]
}

// Encrypt encrypts plaintext under passphrase with c, or AES256CFB when c is nil.
func Encrypt(c Cipher, plaintext []byte, passphrase string) ([]byte, error) {
	if c == nil {
		c = AES256CFB{}
	}
	out, err := c.Encrypt(plaintext, DeriveKey(passphrase), DeriveIV())
	if err != nil {
		return nil, &CryptoError{Op: "encrypt", Err: err}
	}
	return out, nil
}

// Decrypt reverses Encrypt. A wrong passphrase yields garbage, not an error.
func Decrypt(c Cipher, ciphertext []byte, passphrase string) ([]byte, error) {
	if c == nil {
		c = AES256CFB{}
	}
	out, err := c.Decrypt(ciphertext, DeriveKey(passphrase), DeriveIV())
	if err != nil {
		return nil, &CryptoError{Op: "decrypt", Err: err}
	}
	return out, nil
}
