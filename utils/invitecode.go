package utils

import "crypto/rand"

// Invite codes gate group membership, so they come from crypto/rand.
// 0/O and 1/I are left out to keep codes easy to read aloud.
const inviteAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const InviteCodeLength = 6

// GenerateInviteCode returns a 6-character uppercase group invite code.
func GenerateInviteCode() (string, error) {
	buf := make([]byte, InviteCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = inviteAlphabet[int(b)%len(inviteAlphabet)]
	}
	return string(buf), nil
}
