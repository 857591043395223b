package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Sign вычисляет HMAC-SHA256 подпись над сырыми байтами тела и возвращает hex.
// Подпись считается строго по исходным байтам: повторная сериализация JSON
// может изменить содержимое побайтово и сломать проверку.
func Sign(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify пересчитывает подпись и сравнивает с переданной за константное время.
// Возвращает false на невалидном hex или несовпадении длины, никогда не паникует.
func Verify(secret string, payload []byte, providedHex string) bool {
	provided, err := hex.DecodeString(providedHex)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	expected := mac.Sum(nil)

	return hmac.Equal(expected, provided)
}
