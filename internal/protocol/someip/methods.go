package someip

// Service identifiers of the echo test service. These mirror the values the
// generated SOME/IP deployment assigns to the interface.
const (
	EchoServiceID        uint16 = 0x04D2 // 1234
	EchoInstanceID       uint16 = 0x162E // 5678
	EchoInterfaceVersion uint8  = 0x00
)

// Method identifiers of the echo operation catalogue.
const (
	MethodTestBool            uint16 = 0x01A6
	MethodTestInt8            uint16 = 0x01A7
	MethodTestInt16           uint16 = 0x01A8
	MethodTestInt32           uint16 = 0x01A9
	MethodTestInt64           uint16 = 0x01AA
	MethodTestUint8           uint16 = 0x01AB
	MethodTestUint16          uint16 = 0x01AC
	MethodTestUint32          uint16 = 0x01AD
	MethodTestUint64          uint16 = 0x01AE
	MethodTestFloat64         uint16 = 0x01AF
	MethodTestFloat32         uint16 = 0x01B0
	MethodTestStruct          uint16 = 0x01B1
	MethodTestUTF16LEDynamic  uint16 = 0x01B2
	MethodTestUTF16BEDynamic  uint16 = 0x01B3
	MethodTestUTF8Dynamic     uint16 = 0x01B4
	MethodTestUTF16LEFixed    uint16 = 0x01B5
	MethodTestUTF16BEFixed    uint16 = 0x01B6
	MethodTestUTF8Fixed       uint16 = 0x01B7
	MethodTestFireAndForget   uint16 = 0x01B8
	MethodTestFixedArray      uint16 = 0x01B9
	MethodTestDynArray1Byte   uint16 = 0x01BA
	MethodTestDynArray2Bytes  uint16 = 0x01BB
	MethodTestDynArray4Bytes  uint16 = 0x01BC
)

// methodNames maps method IDs to the operation names used in logs and
// metrics. The names match the IDL operation names.
var methodNames = map[uint16]string{
	MethodTestBool:           "test_bool",
	MethodTestInt8:           "test_int8",
	MethodTestInt16:          "test_int16",
	MethodTestInt32:          "test_int32",
	MethodTestInt64:          "test_int64",
	MethodTestUint8:          "test_uint8",
	MethodTestUint16:         "test_uint16",
	MethodTestUint32:         "test_uint32",
	MethodTestUint64:         "test_uint64",
	MethodTestFloat64:        "test_double",
	MethodTestFloat32:        "test_float",
	MethodTestStruct:         "test_struct",
	MethodTestUTF16LEDynamic: "test_utf16le_dynamic_length_string",
	MethodTestUTF16BEDynamic: "test_utf16be_dynamic_length_string",
	MethodTestUTF8Dynamic:    "test_utf8_dynamic_length_string",
	MethodTestUTF16LEFixed:   "test_utf16le_fixed_length_string",
	MethodTestUTF16BEFixed:   "test_utf16be_fixed_length_string",
	MethodTestUTF8Fixed:      "test_utf8_fixed_length_string",
	MethodTestFireAndForget:  "test_fire_and_forget_uint64",
	MethodTestFixedArray:     "test_fixed_length_array",
	MethodTestDynArray1Byte:  "test_dynamic_length_1_byte_array",
	MethodTestDynArray2Bytes: "test_dynamic_length_2_bytes_array",
	MethodTestDynArray4Bytes: "test_dynamic_length_4_bytes_array",
}

// MethodName returns the operation name for a method ID, or "unknown" if
// the ID is not part of the catalogue.
func MethodName(id uint16) string {
	if name, ok := methodNames[id]; ok {
		return name
	}
	return "unknown"
}

// KnownMethod reports whether the method ID is part of the catalogue.
func KnownMethod(id uint16) bool {
	_, ok := methodNames[id]
	return ok
}
