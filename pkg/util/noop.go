package util

import "github.com/influxdata/influxdb-client-go/api/write"

// NoopWriteAPI satisfies the InfluxDB api.WriteAPI interface and drops
// everything. It is the default metrics sink when no InfluxDB host is
// configured.
type NoopWriteAPI struct{}

func (n *NoopWriteAPI) WriteRecord(line string)       {}
func (n *NoopWriteAPI) WritePoint(point *write.Point) {}
func (n *NoopWriteAPI) Flush()                        {}
func (n *NoopWriteAPI) Close()                        {}
func (n *NoopWriteAPI) Errors() <-chan error          { return nil }
