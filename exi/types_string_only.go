package exi

type stringOnlyDecoder struct {
	*typeDecoderBase
}

func newStringOnlyDecoder() (*stringOnlyDecoder, error) {
	decoder, err := newTypeDecoderBase(nil, nil, nil)
	if err != nil {
		return nil, err
	}
	return &stringOnlyDecoder{
		typeDecoderBase: decoder,
	}, nil
}

func (sod *stringOnlyDecoder) ReadValue(dt Datatype, qcx *QNameContext, ch DecoderChannel, decoder StringDecoder) (Value, error) {
	return decoder.ReadValue(qcx, ch)
}

type stringOnlyEncoder struct {
	*typeEncoderBase
	lastValidValue *string
}

func newStringOnlyEncoder() (*stringOnlyEncoder, error) {
	encoder, err := newTypeEncoderBase(nil, nil, nil)
	if err != nil {
		return nil, err
	}
	return &stringOnlyEncoder{
		typeEncoderBase: encoder,
		lastValidValue:      nil,
	}, nil
}

func (soe *stringOnlyEncoder) IsValid(dt Datatype, value Value) (bool, error) {
	s, err := value.ToString()
	if err != nil {
		return false, err
	}
	soe.lastValidValue = &s
	return true, nil
}

func (soe *stringOnlyEncoder) WriteValue(qcx *QNameContext, ch EncoderChannel, encoder StringEncoder) error {
	return encoder.WriteValue(qcx, ch, *soe.lastValidValue)
}
