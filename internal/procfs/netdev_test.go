package procfs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalerrors "github.com/Schera-ole/hostmetrics/internal/errors"
)

const netdev = `Inter-|   Receive                                                |  Transmit
 face |bytes    packets errs drop fifo frame compressed multicast|bytes    packets errs drop fifo colls carrier compressed
    lo:  123456     100    0    0    0     0          0         0   123456     100    0    0    0     0       0          0
  eth0: 9876543    7000    1    2    0     0          0        12  1234567    5000    0    3    0     0       0          0
`

func TestNetDev(t *testing.T) {
	r, root := syntheticReader(t, "x86_64")
	writeSyntheticFile(t, root, "proc/net/dev", netdev)

	stats, err := r.NetDev()
	require.NoError(t, err)
	require.Len(t, stats, 2)

	assert.Equal(t, "lo", stats[0].Interface)
	eth := stats[1]
	assert.Equal(t, "eth0", eth.Interface)
	assert.Equal(t, uint64(9876543), eth.RecvBytes)
	assert.Equal(t, uint64(7000), eth.RecvPackets)
	assert.Equal(t, uint64(1), eth.RecvErrs)
	assert.Equal(t, uint64(2), eth.RecvDrop)
	assert.Equal(t, uint64(12), eth.RecvMcast)
	assert.Equal(t, uint64(1234567), eth.SentBytes)
	assert.Equal(t, uint64(3), eth.SentDrop)
}

func TestNetDevMalformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"short line", "eth0: 1 2 3\n"},
		{"bad counter", "eth0: 1 2 3 4 5 6 7 8 9 10 11 12 13 14 15 x\n"},
		{"no colon", "eth0 1 2 3 4 5 6 7 8 9 10 11 12 13 14 15 16\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, root := syntheticReader(t, "x86_64")
			writeSyntheticFile(t, root, "proc/net/dev", tt.content)

			_, err := r.NetDev()
			require.Error(t, err)
			assert.True(t, errors.Is(err, internalerrors.ErrMalformedData))
		})
	}
}
