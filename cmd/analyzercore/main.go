package main

import (
	"log/slog"
	"net/netip"
	"os"
	"strconv"
	"time"

	"github.com/emiago/sipgo/sip"
	"github.com/sebas/sipwatch/internal/banner"
	"github.com/sebas/sipwatch/internal/bootstrap"
	"github.com/sebas/sipwatch/internal/callcore"
	"github.com/sebas/sipwatch/internal/callcore/packet"
	"github.com/sebas/sipwatch/internal/logger"
)

func main() {
	cfg := bootstrap.Load()

	logger.Init(os.Stdout)
	logger.SetLevel(cfg.LogLevel)

	banner.Print("sipwatch", []banner.ConfigLine{
		{Label: "capture limit", Value: itoaLimit(cfg.Capture.Limit)},
		{Label: "rotate", Value: boolStr(cfg.Capture.Rotate)},
		{Label: "rtp capture", Value: boolStr(cfg.Capture.RTPCapture)},
		{Label: "match expr", Value: cfg.Match.Expr},
	})

	an, err := callcore.Init(cfg.Capture, cfg.Match, cfg.Sort)
	if err != nil {
		slog.Error("failed to init analyzer", "error", err)
		os.Exit(1)
	}
	defer an.Deinit()

	replayScenario(an)

	stats := an.Stats(nil)
	slog.Info("replay complete", "total", stats.Total, "displayed", stats.Displayed)

	for call := range an.Iterator() {
		slog.Info("call",
			"call_id", call.CallID,
			"from", call.From(),
			"to", call.To(),
			"state", call.State.String(),
			"messages", len(call.Messages),
			"active", an.IsActive(call),
		)
	}
}

// replayScenario feeds a canned INVITE/100/200/ACK/BYE/200 exchange through
// the analyzer: a simple completed call, start to finish.
func replayScenario(an *callcore.Analyzer) {
	ua := netip.MustParseAddrPort("10.0.0.2:5060")
	uas := netip.MustParseAddrPort("10.0.0.1:5060")
	now := time.Now()

	callID := sip.CallIDHeader("demo-call-1")

	fromURI := sip.Uri{Scheme: "sip", User: "u1", Host: "10.0.0.2"}
	toURI := sip.Uri{Scheme: "sip", User: "u2", Host: "10.0.0.1"}
	fromParams := sip.NewParams()
	fromParams.Add("tag", "from-tag")
	fromHdr := &sip.FromHeader{Address: fromURI, Params: fromParams}
	toHdr := &sip.ToHeader{Address: toURI, Params: sip.NewParams()}

	invite := sip.NewRequest(sip.INVITE, toURI)
	invite.AppendHeader(&callID)
	invite.AppendHeader(fromHdr)
	invite.AppendHeader(toHdr)
	invite.AppendHeader(&sip.CSeqHeader{SeqNo: 1, MethodName: sip.INVITE})
	feed(an, invite, ua, uas, now)

	trying := sip.NewResponseFromRequest(invite, sip.StatusTrying, "Trying", nil)
	feed(an, trying, uas, ua, now.Add(10*time.Millisecond))

	okInvite := sip.NewResponseFromRequest(invite, sip.StatusOK, "OK", nil)
	feed(an, okInvite, uas, ua, now.Add(200*time.Millisecond))

	ack := sip.NewRequest(sip.ACK, toURI)
	ack.AppendHeader(&callID)
	ack.AppendHeader(fromHdr)
	ack.AppendHeader(toHdr)
	ack.AppendHeader(&sip.CSeqHeader{SeqNo: 1, MethodName: sip.ACK})
	feed(an, ack, ua, uas, now.Add(210*time.Millisecond))

	bye := sip.NewRequest(sip.BYE, toURI)
	bye.AppendHeader(&callID)
	bye.AppendHeader(fromHdr)
	bye.AppendHeader(toHdr)
	bye.AppendHeader(&sip.CSeqHeader{SeqNo: 2, MethodName: sip.BYE})
	feed(an, bye, ua, uas, now.Add(5*time.Second))

	okBye := sip.NewResponseFromRequest(bye, sip.StatusOK, "OK", nil)
	feed(an, okBye, uas, ua, now.Add(5010*time.Millisecond))
}

func feed(an *callcore.Analyzer, msg sip.Message, src, dst netip.AddrPort, at time.Time) {
	p := packet.New(src, dst, at)
	p.SIP = msg
	an.OnSIPPacket(p)
}

func itoaLimit(n int) string {
	if n == 0 {
		return "unbounded"
	}
	return strconv.Itoa(n)
}

func boolStr(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
