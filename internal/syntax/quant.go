package syntax

// QuantIndices are the frame quantizer index and its per-plane deltas.
//
// Source: RFC 6386 section 9.6
type QuantIndices struct {
	YACQI     Unsigned[W7]
	YDCDelta  Flagged[Signed[W4]]
	Y2DCDelta Flagged[Signed[W4]]
	Y2ACDelta Flagged[Signed[W4]]
	UVDCDelta Flagged[Signed[W4]]
	UVACDelta Flagged[Signed[W4]]
}

func (q QuantIndices) encode(e *encoder) {
	q.YACQI.encode(e)
	q.YDCDelta.encode(e)
	q.Y2DCDelta.encode(e)
	q.Y2ACDelta.encode(e)
	q.UVDCDelta.encode(e)
	q.UVACDelta.encode(e)
}

func (QuantIndices) decode(d *decoder) QuantIndices {
	var q QuantIndices
	q.YACQI = q.YACQI.decode(d)
	q.YDCDelta = q.YDCDelta.decode(d)
	q.Y2DCDelta = q.Y2DCDelta.decode(d)
	q.Y2ACDelta = q.Y2ACDelta.decode(d)
	q.UVDCDelta = q.UVDCDelta.decode(d)
	q.UVACDelta = q.UVACDelta.decode(d)
	return q
}

// ModeRefLFDeltaUpdate carries loop filter deltas per reference frame and
// per prediction mode class.
//
// Source: RFC 6386 section 9.6 (mode_ref_lf_delta_update)
type ModeRefLFDeltaUpdate struct {
	RefUpdate  [4]Flagged[Signed[W6]]
	ModeUpdate [4]Flagged[Signed[W6]]
}

func (m ModeRefLFDeltaUpdate) encode(e *encoder) {
	encodeArray(e, m.RefUpdate[:])
	encodeArray(e, m.ModeUpdate[:])
}

func (ModeRefLFDeltaUpdate) decode(d *decoder) ModeRefLFDeltaUpdate {
	var m ModeRefLFDeltaUpdate
	decodeArray(d, m.RefUpdate[:])
	decodeArray(d, m.ModeUpdate[:])
	return m
}
