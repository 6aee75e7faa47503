package deezer

import (
	"bytes"
	"crypto/aes"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strconv"
)

// streamKey is the fixed AES key the CDN expects stream tokens to be
// encrypted with.
const streamKey = "jo6aey6haid2Teih"

// streamSep is the byte separating the token fields before encryption.
const streamSep = 0xa4

// StreamURL derives the content-delivery URL for one track at one
// quality.
//
// The derivation is byte-exact and must not be altered: the four
// fields origin hash, quality code, decimal track ID, and media
// version are joined with a separator byte, prefixed with the hex MD5
// digest of that join plus another separator, terminated with a final
// separator, zero-padded to a multiple of the AES block size, and
// encrypted with AES-128 in ECB mode under a fixed key. The hex
// ciphertext is the token, and the host is selected by the first
// character of the origin hash.
//
// The inputs come from a hydrated track:
//
//	u, err := deezer.StreamURL(t.Extra.MD5Origin, t.Extra.MediaVersion, t.ID, bitrate.Code())
func StreamURL(md5Origin, mediaVersion string, trackID int64, qualityCode string) (string, error) {
	if md5Origin == "" {
		return "", fmt.Errorf("stream url: empty origin hash for track %d", trackID)
	}

	fields := [][]byte{
		[]byte(md5Origin),
		[]byte(qualityCode),
		[]byte(strconv.FormatInt(trackID, 10)),
		[]byte(mediaVersion),
	}
	data := bytes.Join(fields, []byte{streamSep})

	digest := md5.Sum(data)
	hexDigest := make([]byte, hex.EncodedLen(len(digest)))
	hex.Encode(hexDigest, digest[:])

	token := bytes.Join([][]byte{hexDigest, data}, []byte{streamSep})
	token = append(token, streamSep)
	if pad := len(token) % aes.BlockSize; pad != 0 {
		token = append(token, make([]byte, aes.BlockSize-pad)...)
	}

	encrypted, err := ecbEncrypt(token, []byte(streamKey))
	if err != nil {
		return "", fmt.Errorf("stream url: %w", err)
	}

	return fmt.Sprintf("http://e-cdn-proxy-%c.dzcdn.net/api/1/%s",
		md5Origin[0], hex.EncodeToString(encrypted)), nil
}

// ecbEncrypt encrypts src block by block. ECB is what the CDN scheme
// uses; the input is already padded to the block size.
func ecbEncrypt(src, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	dst := make([]byte, len(src))
	for i := 0; i < len(src); i += aes.BlockSize {
		block.Encrypt(dst[i:i+aes.BlockSize], src[i:i+aes.BlockSize])
	}
	return dst, nil
}
