package mqtt

import (
	"context"
	"strings"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"

	"github.com/robotalks/m0soc/pkg/telemetry"
)

// SampleTopicPattern matches the sample topic of every device, relative
// to the topic prefix.
const SampleTopicPattern = "+/sample"

// SubscribeClient is the part of paho.Client used by Watcher.
type SubscribeClient interface {
	Connect() paho.Token
	Disconnect(quiesce uint)
	Subscribe(topic string, qos byte, callback paho.MessageHandler) paho.Token
}

// SampleHandler is the callback when a sample is received.
type SampleHandler func(device string, s *telemetry.Sample)

// Watcher receives samples published by all devices.
type Watcher struct {
	Client      SubscribeClient
	TopicPrefix string
	Handler     SampleHandler
}

// MatchTopic matches topic with an MQTT filter: "+" matches exactly one
// level and a trailing "#" matches all remaining levels.
func MatchTopic(topic, pattern string) bool {
	levels, filters := strings.Split(topic, "/"), strings.Split(pattern, "/")
	for n, filter := range filters {
		if filter == "#" && n+1 == len(filters) {
			return true
		}
		if n >= len(levels) {
			return false
		}
		if filter != "+" && filter != levels[n] {
			return false
		}
	}
	return len(levels) == len(filters)
}

// NewWatcher creates a Watcher from broker URL.
func NewWatcher(brokerURL string, handler SampleHandler) (*Watcher, error) {
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	w := &Watcher{TopicPrefix: topicPrefix, Handler: handler}
	// subscriptions are lost with a clean session on reconnect.
	opts.SetOnConnectHandler(func(c paho.Client) {
		glog.Info("connected")
		c.Subscribe(w.TopicPrefix+SampleTopicPattern, 0, w.dispatch)
	})
	opts.SetConnectionLostHandler(func(c paho.Client, err error) {
		glog.Warningf("connection lost: %v", err)
	})
	w.Client = paho.NewClient(opts)
	return w, nil
}

// Run implements Runnable.
func (w *Watcher) Run(ctx context.Context) error {
	token := w.Client.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		return err
	}
	token = w.Client.Subscribe(w.TopicPrefix+SampleTopicPattern, 0, w.dispatch)
	token.Wait()
	if err := token.Error(); err != nil {
		w.Client.Disconnect(0)
		return err
	}
	<-ctx.Done()
	w.Client.Disconnect(250)
	return nil
}

func (w *Watcher) dispatch(c paho.Client, msg paho.Message) {
	w.handle(msg.Topic(), msg.Payload())
}

func (w *Watcher) handle(topic string, payload []byte) {
	if !strings.HasPrefix(topic, w.TopicPrefix) {
		return
	}
	topic = topic[len(w.TopicPrefix):]
	if !MatchTopic(topic, SampleTopicPattern) {
		return
	}
	glog.V(2).Infof("RCV %q", topic)
	s, err := telemetry.Decode(payload)
	if err != nil {
		glog.Warningf("%s: bad sample: %v", topic, err)
		return
	}
	if h := w.Handler; h != nil {
		h(strings.SplitN(topic, "/", 2)[0], s)
	}
}
