package correlator

import (
	"net/netip"
	"testing"
	"time"

	"github.com/pion/rtcp"
	"github.com/pion/rtp"
	"github.com/sebas/sipwatch/internal/callcore/config"
	"github.com/sebas/sipwatch/internal/callcore/model"
	"github.com/sebas/sipwatch/internal/callcore/packet"
	"github.com/sebas/sipwatch/internal/callcore/store"
)

func rtpPacket(src, dst netip.AddrPort, fmtCode uint8) *packet.Packet {
	p := packet.New(src, dst, time.Now())
	p.RTP = &rtp.Packet{Header: rtp.Header{PayloadType: fmtCode}, Payload: []byte{0x01}}
	return p
}

func newTestStore(t *testing.T, capture config.CaptureOptions, sortOpts config.SortOptions) *store.Store {
	t.Helper()
	s, err := store.New(capture, sortOpts)
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	return s
}

func TestReverseStreamSynthesis(t *testing.T) {
	s := newTestStore(t, config.CaptureOptions{Limit: 10}, config.SortOptions{})
	call := s.Create("A", "", time.Now())

	announced := netip.MustParseAddrPort("10.0.0.1:5000")
	media := &model.MediaDescriptor{Address: announced.Addr(), Port: int(announced.Port())}
	call.AddStream(model.NewStream(media, model.StreamRTP, announced, nil))

	mc := NewMediaCorrelator(s)

	observedSrc := netip.MustParseAddrPort("10.0.0.2:6000")
	got := mc.OnRTPPacket(rtpPacket(observedSrc, announced, 0))
	if got == nil {
		t.Fatal("expected the announced stream to resolve")
	}
	if got.Src != observedSrc {
		t.Errorf("announced stream src = %v, want %v", got.Src, observedSrc)
	}
	if got.Packets != 1 || got.Bytes != 1 {
		t.Errorf("packets/bytes = %d/%d, want 1/1", got.Packets, got.Bytes)
	}

	reverseDst := observedSrc
	reverseSrc := announced
	reverse := call.FindStreamExact(reverseSrc, reverseDst)
	if reverse == nil {
		t.Fatal("expected a reverse stream with src=announced, dst=observed")
	}
}

func TestFormatChangeCreatesNewStream(t *testing.T) {
	s := newTestStore(t, config.CaptureOptions{Limit: 10}, config.SortOptions{})
	call := s.Create("A", "", time.Now())

	dst := netip.MustParseAddrPort("10.0.0.1:5000")
	media := &model.MediaDescriptor{Address: dst.Addr(), Port: int(dst.Port())}
	stream := model.NewStream(media, model.StreamRTP, dst, nil)
	src := netip.MustParseAddrPort("10.0.0.2:6000")
	stream.Bind(src, 0)
	call.AddStream(stream)

	mc := NewMediaCorrelator(s)
	got := mc.OnRTPPacket(rtpPacket(src, dst, 8))
	if got == nil {
		t.Fatal("expected a resolved stream")
	}
	if got == stream {
		t.Error("a format change must create a new stream, not reuse the original")
	}
	if got.FmtCode != 8 {
		t.Errorf("new stream fmtcode = %d, want 8", got.FmtCode)
	}
}

func TestUnknownEndpointReturnsNil(t *testing.T) {
	s := newTestStore(t, config.CaptureOptions{Limit: 10}, config.SortOptions{})
	mc := NewMediaCorrelator(s)
	got := mc.OnRTPPacket(rtpPacket(netip.MustParseAddrPort("1.1.1.1:1"), netip.MustParseAddrPort("2.2.2.2:2"), 0))
	if got != nil {
		t.Error("an RTP packet with no matching stream should resolve to nil")
	}
}

func TestRTCPCompletesStreamAndObservesBytes(t *testing.T) {
	s := newTestStore(t, config.CaptureOptions{Limit: 10}, config.SortOptions{})
	call := s.Create("A", "", time.Now())

	dst := netip.MustParseAddrPort("10.0.0.1:5001")
	media := &model.MediaDescriptor{Address: dst.Addr(), Port: 5000, RTCPPort: 5001}
	call.AddStream(model.NewStream(media, model.StreamRTCP, dst, nil))

	mc := NewMediaCorrelator(s)
	src := netip.MustParseAddrPort("10.0.0.2:6001")
	p := packet.New(src, dst, time.Now())
	p.RTCP = []rtcp.Packet{&rtcp.ReceiverReport{SSRC: 1234}}

	got := mc.OnRTCPPacket(p)
	if got == nil {
		t.Fatal("expected the registered RTCP stream to resolve")
	}
	if !got.Complete || got.Src != src {
		t.Errorf("stream not completed with observed source: %+v", got)
	}
	if got.Packets != 1 {
		t.Errorf("packets = %d, want 1", got.Packets)
	}
	if got.Bytes == 0 {
		t.Error("expected a non-zero byte count from the decoded RTCP packet")
	}
}

func TestRTCPUnknownEndpointReturnsNil(t *testing.T) {
	s := newTestStore(t, config.CaptureOptions{Limit: 10}, config.SortOptions{})
	mc := NewMediaCorrelator(s)
	p := packet.New(netip.MustParseAddrPort("1.1.1.1:1"), netip.MustParseAddrPort("2.2.2.2:2"), time.Now())
	p.RTCP = []rtcp.Packet{&rtcp.ReceiverReport{SSRC: 1}}
	if got := mc.OnRTCPPacket(p); got != nil {
		t.Error("an RTCP packet with no matching stream should resolve to nil")
	}
}
