// Package factory instantiates pluggable modules (metric sinks, publishers)
// from configuration. A module is named by a type string and carries a raw
// settings map that the registered constructor decodes into its own struct:
//
//	reg := factory.NewRegistry[metrics.Sink]()
//	_ = reg.Register("journal", func(conf map[string]any) (metrics.Sink, error) {
//	    var c struct{ Path string `json:"path"` }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return NewJournalSink(c.Path), nil
//	})
//	s, err := reg.Create(factory.ModuleConfig{Type: "journal", Conf: map[string]any{"path": "batches.jsonl"}})
package factory
