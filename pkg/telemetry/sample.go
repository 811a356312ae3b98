// Package telemetry publishes accelerometer samples.
package telemetry

import (
	"time"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
	"github.com/golang/protobuf/proto"
)

// Sample mirrors the message in sample.proto.
type Sample struct {
	DeviceId  string  `protobuf:"bytes,1,opt,name=device_id,json=deviceId,proto3" json:"device_id,omitempty"`
	Seq       uint64  `protobuf:"varint,2,opt,name=seq,proto3" json:"seq,omitempty"`
	X         int32   `protobuf:"zigzag32,3,opt,name=x,proto3" json:"x,omitempty"`
	Y         int32   `protobuf:"zigzag32,4,opt,name=y,proto3" json:"y,omitempty"`
	Z         int32   `protobuf:"zigzag32,5,opt,name=z,proto3" json:"z,omitempty"`
	Gx        float64 `protobuf:"fixed64,6,opt,name=gx,proto3" json:"gx,omitempty"`
	Gy        float64 `protobuf:"fixed64,7,opt,name=gy,proto3" json:"gy,omitempty"`
	Gz        float64 `protobuf:"fixed64,8,opt,name=gz,proto3" json:"gz,omitempty"`
	Line      string  `protobuf:"bytes,9,opt,name=line,proto3" json:"line,omitempty"`
	Truncated bool    `protobuf:"varint,10,opt,name=truncated,proto3" json:"truncated,omitempty"`
	Timestamp int64   `protobuf:"varint,11,opt,name=timestamp,proto3" json:"timestamp,omitempty"`
}

// Reset implements proto.Message.
func (m *Sample) Reset() { *m = Sample{} }

// String implements proto.Message.
func (m *Sample) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (*Sample) ProtoMessage() {}

// Time returns the sample time.
func (m *Sample) Time() time.Time {
	return time.Unix(0, m.Timestamp)
}

// Encode marshals a sample.
func Encode(s *Sample) ([]byte, error) {
	return proto.Marshal(s)
}

// Decode unmarshals a sample.
func Decode(data []byte) (*Sample, error) {
	s := &Sample{}
	if err := proto.Unmarshal(data, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Publisher sends samples somewhere.
type Publisher interface {
	Publish(*Sample) error
}

// PublisherFunc is the func form of Publisher.
type PublisherFunc func(*Sample) error

// Publish implements Publisher.
func (f PublisherFunc) Publish(s *Sample) error {
	return f(s)
}

// LogPublisher logs samples.
var LogPublisher = PublisherFunc(func(s *Sample) error {
	glog.Infof("sample %s", s)
	return nil
})

const appID = "m0soc"

// DeviceID returns an identifier of this machine which does not expose
// the machine id itself.
func DeviceID() string {
	id, err := machineid.ProtectedID(appID)
	if err != nil {
		glog.Warningf("machine id unavailable: %v", err)
		return appID
	}
	if len(id) > 12 {
		id = id[:12]
	}
	return id
}
