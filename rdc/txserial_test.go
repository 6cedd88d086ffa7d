package rdc

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cfreal/simplerdc/packetbuf"
	"github.com/cfreal/simplerdc/radiohal"
	"github.com/cfreal/simplerdc/radiohal/radiohaltest"
)

// TestTxSerialStrictlyIncreasesModulo256 checks the quantified
// invariant of spec §8: across many sends, sequence numbers observed
// on the wire strictly increase modulo 256.
func TestTxSerialStrictlyIncreasesModulo256(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(2, 300).Draw(rt, "n")

		mac, fake, _ := newTestMAC(t, false)
		fake.DefaultTransmit = radiohaltest.TransmitResult{Result: radiohal.TxSent}
		fake.DefaultChannelClear = true

		var seqs []byte
		for i := 0; i < n; i++ {
			buf := packetbuf.New()
			buf.Receiver = Broadcast
			require.NoError(t, buf.SetData([]byte("x")))
			status := mac.Send(buf, nil)
			if status != OK {
				rt.Fatalf("send %d returned %s, want OK", i, status)
			}
			seqs = append(seqs, buf.Seq)
		}

		for i := 1; i < len(seqs); i++ {
			want := byte(seqs[i-1] + 1) // wraps modulo 256 by construction
			if seqs[i] != want {
				rt.Fatalf("sequence %d followed %d, want %d (wrap modulo 256)", seqs[i], seqs[i-1], want)
			}
		}
	})
}
