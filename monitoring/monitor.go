// Package monitoring turns a running simulation into a web server, so that
// the macros can be watched and the engine paused from a browser.
package monitoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/sarchlab/sramsim/mem/sram"
	"github.com/sarchlab/sramsim/mem/sram/decoder"
	"github.com/sarchlab/sramsim/monitoring/web"
	"github.com/sarchlab/sramsim/sim/hooking"
	"github.com/sarchlab/sramsim/sim/id"
	"github.com/sarchlab/sramsim/sim/naming"
	"github.com/sarchlab/sramsim/sim/timing"
)

// Component is anything the monitor can list.
type Component interface {
	naming.Named
	hooking.Hookable
}

// macro is a component that exposes SRAM nets and cells.
type macro interface {
	Component
	Pins() sram.Pins
	Signals() sram.Signals
	Peek(addr decoder.Address) uint8
}

// Monitor can turn a simulation into a server and allows external monitoring
// controlling of the simulation.
type Monitor struct {
	engine     timing.Engine
	components []Component
	portNumber int
	url        string

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterEngine registers the engine that is used in the simulation.
func (m *Monitor) RegisterEngine(e timing.Engine) {
	m.engine = e
}

// RegisterComponent register a component to be monitored.
func (m *Monitor) RegisterComponent(c Component) {
	m.components = append(m.components, c)
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        id.Generate(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar to be shown on the webpage.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

func (m *Monitor) routes() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/pause", m.pauseEngine)
	r.HandleFunc("/api/continue", m.continueEngine)
	r.HandleFunc("/api/now", m.now)
	r.HandleFunc("/api/tick/{name}", m.tick)
	r.HandleFunc("/api/list_components", m.listComponents)
	r.HandleFunc("/api/component/{name}", m.listComponentDetails)
	r.HandleFunc("/api/field/{json}", m.listFieldValue)
	r.HandleFunc("/api/sram/{name}/signals", m.sramSignals)
	r.HandleFunc("/api/sram/{name}/word/{addr}", m.sramWord)
	r.HandleFunc("/api/sram/{name}/dump", m.sramDump)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	r.PathPrefix("/").Handler(http.FileServer(web.GetAssets()))

	return r
}

// StartServer starts the monitor as a web server. It returns the URL of the
// dashboard.
func (m *Monitor) StartServer() string {
	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	m.url = fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)

	fmt.Fprintf(os.Stderr, "Monitoring simulation with %s\n", m.url)

	router := m.routes()

	go func() {
		err := http.Serve(listener, router)
		dieOnErr(err)
	}()

	return m.url
}

// OpenBrowser shows the dashboard in the default browser.
func (m *Monitor) OpenBrowser() error {
	if m.url == "" {
		return fmt.Errorf("monitoring server is not started")
	}

	return browser.OpenURL(m.url)
}

func (m *Monitor) pauseEngine(w http.ResponseWriter, _ *http.Request) {
	m.engine.Pause()
	_, err := w.Write(nil)
	dieOnErr(err)
}

func (m *Monitor) continueEngine(w http.ResponseWriter, _ *http.Request) {
	m.engine.Continue()
	_, err := w.Write(nil)
	dieOnErr(err)
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	now := m.engine.CurrentTime()
	fmt.Fprintf(w, "{\"now\":%d}", now)
}

func (m *Monitor) listComponents(w http.ResponseWriter, _ *http.Request) {
	names := make([]string, 0, len(m.components))
	for _, c := range m.components {
		names = append(names, c.Name())
	}

	writeJSON(w, names)
}

type tickingComponent interface {
	TickLater()
}

func (m *Monitor) tick(w http.ResponseWriter, r *http.Request) {
	comp := m.findComponentOr404(w, mux.Vars(r)["name"])
	if comp == nil {
		return
	}

	tickingComp, ok := comp.(tickingComponent)
	if !ok {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	tickingComp.TickLater()
	w.WriteHeader(http.StatusOK)
}

func (m *Monitor) listComponentDetails(w http.ResponseWriter, r *http.Request) {
	component := m.findComponentOr404(w, mux.Vars(r)["name"])
	if component == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(component)
	serializer.SetMaxDepth(1)
	err := serializer.Serialize(w)

	dieOnErr(err)
}

type fieldReq struct {
	CompName  string `json:"comp_name,omitempty"`
	FieldName string `json:"field_name,omitempty"`
}

func (m *Monitor) listFieldValue(w http.ResponseWriter, r *http.Request) {
	req := fieldReq{}

	err := json.Unmarshal([]byte(mux.Vars(r)["json"]), &req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	component := m.findComponentOr404(w, req.CompName)
	if component == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(component)
	serializer.SetMaxDepth(1)

	err = serializer.SetEntryPoint(strings.Split(req.FieldName, "."))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	err = serializer.Serialize(w)
	dieOnErr(err)
}

type signalsRsp struct {
	Phase           string `json:"phase"`
	State           uint8  `json:"state"`
	Mode            string `json:"mode"`
	Enable          bool   `json:"enable"`
	ReadNotWrite    bool   `json:"read_not_write"`
	Addr            uint16 `json:"addr"`
	DataIn          uint8  `json:"data_in"`
	PrechargeEnable bool   `json:"precharge_enable"`
	RowEnable       bool   `json:"row_enable"`
	ReadEnable      bool   `json:"read_enable"`
	WriteEnable     bool   `json:"write_enable"`
	Ready           bool   `json:"ready"`
	DataOut         uint8  `json:"data_out"`
	RowSelect       string `json:"row_select"`
	ColSelect       string `json:"col_select"`
	Bitline         string `json:"bitline"`
	BitlineBar      string `json:"bitline_bar"`
}

func (m *Monitor) sramSignals(w http.ResponseWriter, r *http.Request) {
	c := m.findMacroOr404(w, mux.Vars(r)["name"])
	if c == nil {
		return
	}

	s := c.Signals()
	p := c.Pins()

	writeJSON(w, signalsRsp{
		Phase:           s.Phase.String(),
		State:           uint8(s.Phase),
		Mode:            s.Mode.String(),
		Enable:          p.Enable,
		ReadNotWrite:    p.ReadNotWrite,
		Addr:            uint16(p.Addr),
		DataIn:          p.DataIn,
		PrechargeEnable: s.PrechargeEnable,
		RowEnable:       s.RowEnable,
		ReadEnable:      s.ReadEnable,
		WriteEnable:     s.WriteEnable,
		Ready:           s.Ready,
		DataOut:         s.DataOut,
		RowSelect:       s.RowSelect.String(),
		ColSelect:       s.ColSelect.String(),
		Bitline:         s.Bitline.String(),
		BitlineBar:      s.BitlineBar.String(),
	})
}

type wordRsp struct {
	Addr uint16 `json:"addr"`
	Data uint8  `json:"data"`
}

func (m *Monitor) sramWord(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	c := m.findMacroOr404(w, vars["name"])
	if c == nil {
		return
	}

	addr, err := strconv.ParseUint(vars["addr"], 0, 16)
	if err != nil || addr >= decoder.NumAddresses {
		http.Error(w, "invalid address "+vars["addr"], http.StatusBadRequest)
		return
	}

	writeJSON(w, wordRsp{
		Addr: uint16(addr),
		Data: c.Peek(decoder.Address(addr)),
	})
}

// sramDump returns one hex string per row, word 15 first.
func (m *Monitor) sramDump(w http.ResponseWriter, r *http.Request) {
	c := m.findMacroOr404(w, mux.Vars(r)["name"])
	if c == nil {
		return
	}

	rows := make([]string, decoder.NumRows)
	for row := range rows {
		var sb strings.Builder

		for word := decoder.NumWords - 1; word >= 0; word-- {
			addr := decoder.MakeAddress(uint8(row), uint8(word))
			fmt.Fprintf(&sb, "%X", c.Peek(addr))
		}

		rows[row] = sb.String()
	}

	writeJSON(w, rows)
}

func (m *Monitor) findComponentOr404(
	w http.ResponseWriter,
	name string,
) Component {
	for _, c := range m.components {
		if c.Name() == name {
			return c
		}
	}

	w.WriteHeader(http.StatusNotFound)
	_, err := w.Write([]byte("Component not found"))
	dieOnErr(err)

	return nil
}

func (m *Monitor) findMacroOr404(w http.ResponseWriter, name string) macro {
	c := m.findComponentOr404(w, name)
	if c == nil {
		return nil
	}

	s, ok := c.(macro)
	if !ok {
		http.Error(w, name+" is not an SRAM macro", http.StatusNotFound)
		return nil
	}

	return s
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	writeJSON(w, m.progressBars)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	writeJSON(w, prof)
}

func writeJSON(w http.ResponseWriter, v any) {
	bytes, err := json.Marshal(v)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
