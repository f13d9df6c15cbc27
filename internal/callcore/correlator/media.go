package correlator

import (
	"fmt"
	"net/netip"

	"github.com/pion/rtcp"
	"github.com/sebas/sipwatch/internal/callcore/model"
	"github.com/sebas/sipwatch/internal/callcore/packet"
	"github.com/sebas/sipwatch/internal/callcore/store"
)

// MediaCorrelator resolves RTP/RTCP packets onto Streams and proactively
// creates the streams an SDP offer/answer announces.
type MediaCorrelator struct {
	store *store.Store
}

// NewMediaCorrelator wires a media correlator against a store.
func NewMediaCorrelator(s *store.Store) *MediaCorrelator {
	return &MediaCorrelator{store: s}
}

// OnRTPPacket resolves an observed RTP packet onto a Stream, creating
// companion streams as needed (format multiplexing, reverse-stream
// synthesis). Returns nil if the packet does not land on any known dst.
func (mc *MediaCorrelator) OnRTPPacket(p *packet.Packet) *model.Stream {
	if p.RTP == nil {
		return nil
	}
	format := int(p.RTP.PayloadType)
	stream, call := mc.store.FindStreamByEndpoint(p.Src, p.Dst)
	if stream == nil {
		return nil
	}

	if stream.Complete && stream.FmtCode != format {
		// Endpoint multiplexes formats on one port: always switch to a
		// new format-specific stream for this packet; the prior stream is
		// left as-is rather than retroactively flagged complete.
		newStream := model.NewStream(stream.Media, model.StreamRTP, stream.Dst, stream.Msg)
		newStream.Bind(p.Src, format)
		call.AddStream(newStream)
		newStream.Observe(len(p.RTP.Payload))
		return newStream
	}

	if !stream.Complete {
		stream.Bind(p.Src, format)
		mc.synthesizeReverse(call, stream)
	}

	stream.Observe(len(p.RTP.Payload))
	return stream
}

// synthesizeReverse ensures the call has a stream representing the other
// direction of a just-bound stream, healing the common case where an
// endpoint replies from/to a port other than the one SDP announced.
func (mc *MediaCorrelator) synthesizeReverse(call *model.Call, stream *model.Stream) {
	reverseDst := stream.Src
	reverseSrc := stream.Dst

	r := call.FindStreamExact(reverseSrc, reverseDst)
	if r != nil {
		return
	}

	for _, s := range call.Streams {
		if s.Type == stream.Type && s.Dst == reverseDst {
			if s.Complete && s.Src != reverseSrc {
				// Endpoint shifted source port; no exact match found
				// above, so a fresh reverse stream is created below.
				break
			}
			if !s.Complete {
				s.Bind(reverseSrc, stream.FmtCode)
				return
			}
			return
		}
	}

	reverse := model.NewStream(stream.Media, stream.Type, reverseDst, stream.Msg)
	reverse.Bind(reverseSrc, stream.FmtCode)
	call.AddStream(reverse)
}

// OnRTCPPacket resolves an observed RTCP packet onto its Stream. Unlike the
// RTP path, RTCP streams are looked up and completed directly: RTCP and RTP
// are separate streams from the moment RegisterStreams creates them, so this
// runs its own endpoint lookup rather than sharing any state from an RTP
// resolution. Stream resolution stays address-based, the same as the RTP
// path; the decoded rtcp.Packet values carry per-report SSRCs but no RTP
// SSRC is ever recorded on a Stream to compare them against, so there is
// nothing for an SSRC-keyed lookup to join on here.
func (mc *MediaCorrelator) OnRTCPPacket(p *packet.Packet) *model.Stream {
	if len(p.RTCP) == 0 {
		return nil
	}
	stream, _ := mc.store.FindStreamByEndpoint(p.Src, p.Dst)
	if stream == nil {
		return nil
	}
	if !stream.Complete {
		stream.Bind(p.Src, stream.FmtCode)
	}
	stream.Observe(rtcpPayloadSize(p.RTCP))
	return stream
}

// rtcpPayloadSize re-marshals each decoded RTCP packet to recover its wire
// size; Packet.Raw is never populated by this tree's ingress path, so this
// is the only byte count available post-decode.
func rtcpPayloadSize(pkts []rtcp.Packet) int {
	n := 0
	for _, pkt := range pkts {
		b, err := pkt.Marshal()
		if err != nil {
			continue
		}
		n += len(b)
	}
	return n
}

// RegisterStreams is the SDP-time entry point: for each media descriptor in
// the message, proactively create the streams register_streams promises so
// later RTP/RTCP packets have somewhere to bind.
func (mc *MediaCorrelator) RegisterStreams(call *model.Call, msg *model.Message, p *packet.Packet) {
	for _, media := range parseMediaDescriptors(p) {
		rtpDst := netip.AddrPortFrom(media.Address, uint16(media.Port))

		if call.FindStreamByDst(rtpDst) == nil {
			call.AddStream(model.NewStream(media, model.StreamRTP, rtpDst, msg))
		}

		rtcpPort := media.RTCPPort
		if rtcpPort == 0 {
			rtcpPort = media.Port + 1
		}
		rtcpDst := netip.AddrPortFrom(media.Address, uint16(rtcpPort))
		if call.FindStreamByDst(rtcpDst) == nil {
			call.AddStream(model.NewStream(media, model.StreamRTCP, rtcpDst, msg))
		}

		// Common NAT case: the endpoint advertises one address in SDP but
		// actually sends from the address it used to signal. Pre-create a
		// stream dst'd there too so the first RTP packet binds immediately
		// instead of being dropped as "not interesting".
		natDst := netip.AddrPortFrom(p.Src.Addr(), uint16(media.Port))
		if natDst != rtpDst && call.FindStreamByDst(natDst) == nil {
			call.AddStream(model.NewStream(media, model.StreamRTP, natDst, msg))
		}
	}
}

// parseMediaDescriptors extracts media descriptors from the packet's parsed
// SDP body, if any.
func parseMediaDescriptors(p *packet.Packet) []*model.MediaDescriptor {
	if p.SDP == nil {
		return nil
	}

	var conn netip.Addr
	if p.SDP.ConnectionInformation != nil && p.SDP.ConnectionInformation.Address != nil {
		if addr, err := netip.ParseAddr(p.SDP.ConnectionInformation.Address.Address); err == nil {
			conn = addr
		}
	}

	var out []*model.MediaDescriptor
	for _, m := range p.SDP.MediaDescriptions {
		addr := conn
		rtcpPort := 0
		if m.ConnectionInformation != nil && m.ConnectionInformation.Address != nil {
			if a, err := netip.ParseAddr(m.ConnectionInformation.Address.Address); err == nil {
				addr = a
			}
		}
		for _, attr := range m.Attributes {
			if attr.Key == "rtcp" {
				if port, err := parsePort(attr.Value); err == nil {
					rtcpPort = port
				}
			}
		}
		out = append(out, &model.MediaDescriptor{
			Address:  addr,
			Port:     m.MediaName.Port.Value,
			RTCPPort: rtcpPort,
			Formats:  m.MediaName.Formats,
		})
	}
	return out
}

func parsePort(s string) (int, error) {
	var port int
	_, err := fmt.Sscanf(s, "%d", &port)
	return port, err
}
