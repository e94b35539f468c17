// riceinfo reports the Subset compliance and partitioned Rice coding cost of
// WAV files.
//
// The PCM samples of each channel are Rice coded verbatim (predictor order 0)
// in blocks of a fixed size, using the partition order which yields the fewest
// bits. The coded blocks are stored in a ".rice" file next to the WAV file,
// consisting of a StreamInfo metadata block followed by, for each block, a
// frame header and one residual section per channel, byte aligned.
//
// Usage:
//
//	riceinfo [OPTION]... FILE.wav...
//
// Flags:
//
//	-block-size int
//	      block size in inter-channel samples (default 4096)
//	-f    force overwrite
//	-max-order int
//	      maximum partition order (default 8)
//	-o string
//	      output path (only valid with a single input file)
//	-rice2
//	      use 5-bit Rice parameters
//	-subset
//	      require Subset compliance
//	-v    verbose output
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/kylelemons/godebug/pretty"
	"github.com/mewkiz/flacfmt"
	"github.com/mewkiz/flacfmt/format"
	"github.com/mewkiz/flacfmt/frame"
	"github.com/mewkiz/flacfmt/internal/bits"
	"github.com/mewkiz/flacfmt/meta"
	"github.com/mewkiz/flacfmt/rice"
	"github.com/mewkiz/pkg/osutil"
	"github.com/mewkiz/pkg/pathutil"
	"github.com/pkg/errors"
)

func main() {
	// Parse command line arguments.
	var (
		// Block size in inter-channel samples.
		blockSize int
		// Force overwrite of output file if already present.
		force bool
		// Maximum partition order.
		maxOrder int
		// Output path.
		output string
		// Use 5-bit Rice parameters.
		useRice2 bool
		// Require Subset compliance.
		subset bool
		// Verbose output.
		verbose bool
	)
	flag.IntVar(&blockSize, "block-size", 4096, "block size in inter-channel samples")
	flag.BoolVar(&force, "f", false, "force overwrite")
	flag.IntVar(&maxOrder, "max-order", format.SubsetMaxRicePartitionOrder, "maximum partition order")
	flag.StringVar(&output, "o", "", "output path (only valid with a single input file)")
	flag.BoolVar(&useRice2, "rice2", false, "use 5-bit Rice parameters")
	flag.BoolVar(&subset, "subset", false, "require Subset compliance")
	flag.BoolVar(&verbose, "v", false, "verbose output")
	flag.Parse()
	if len(output) > 0 && flag.NArg() != 1 {
		log.Fatalf("invalid number of input files with -o flag; expected 1, got %d", flag.NArg())
	}
	conf := config{
		blockSize: blockSize,
		maxOrder:  maxOrder,
		method:    rice.Rice,
		profile:   format.Full,
		force:     force,
		verbose:   verbose,
	}
	if useRice2 {
		conf.method = rice.Rice2
	}
	if subset {
		conf.profile = format.Subset
	}
	for _, wavPath := range flag.Args() {
		ricePath := output
		if len(ricePath) == 0 {
			ricePath = pathutil.TrimExt(wavPath) + ".rice"
		}
		if err := riceinfo(wavPath, ricePath, conf); err != nil {
			log.Fatalf("%+v", err)
		}
	}
}

// config specifies how to Rice code the audio samples.
type config struct {
	blockSize int
	maxOrder  int
	method    rice.Method
	profile   format.Profile
	force     bool
	verbose   bool
}

// blockInfo summarizes a coded block.
type blockInfo struct {
	Num       uint64
	BlockSize int
	// Partition order per channel.
	Orders []int
	// Size in bits of the residual section per channel.
	Bits []uint64
}

func riceinfo(wavPath, ricePath string, conf config) error {
	// Decode WAV file.
	samples, info, err := decodeWAV(wavPath)
	if err != nil {
		return errors.WithStack(err)
	}
	if err := format.ValidateBlockSize(conf.blockSize, conf.profile, info.SampleRate); err != nil {
		return errors.WithStack(err)
	}
	nchannels := int(info.NChannels)
	nsamples := len(samples) / nchannels
	info.NSamples = uint64(nsamples)
	info.BlockSizeMax = uint16(conf.blockSize)
	info.BlockSizeMin = uint16(conf.blockSize)
	channels, err := frame.ChannelsFromCount(nchannels)
	if err != nil {
		return errors.WithStack(err)
	}
	// Sample rates which have no frame header code are inherited from
	// StreamInfo.
	sampleRate := info.SampleRate
	if _, _, _, err := format.SampleRateCode(sampleRate); err != nil {
		sampleRate = 0
	}

	// Rice code blocks.
	buf := &bytes.Buffer{}
	c := rice.NewCoder()
	var (
		hdrs   []frame.Header
		orders []int
		blocks []blockInfo
		total  uint64
	)
	residuals := make([]int32, conf.blockSize)
	for start, num := 0, uint64(0); start < nsamples; start, num = start+conf.blockSize, num+1 {
		n := conf.blockSize
		if start+n > nsamples {
			n = nsamples - start
		}
		hdr := frame.Header{
			HasFixedBlockSize: true,
			BlockSize:         uint16(n),
			SampleRate:        sampleRate,
			Channels:          channels,
			Num:               num,
		}
		if err := hdr.Encode(buf); err != nil {
			return errors.WithStack(err)
		}
		hdrs = append(hdrs, hdr)
		block := blockInfo{Num: num, BlockSize: n}
		bw := bits.NewWriter(buf)
		for ch := 0; ch < nchannels; ch++ {
			residuals = residuals[:n]
			for i := range residuals {
				residuals[i] = samples[(start+i)*nchannels+ch]
			}
			order, err := c.ChooseOrder(residuals, n, 0, 0, conf.maxOrder, conf.method, conf.profile)
			if err != nil {
				return errors.WithStack(err)
			}
			before := bw.Tell()
			if _, err := c.EncodeResidual(bw, residuals, n, 0, order, conf.method, conf.profile); err != nil {
				return errors.WithStack(err)
			}
			nbits := bw.Tell() - before
			orders = append(orders, order)
			block.Orders = append(block.Orders, order)
			block.Bits = append(block.Bits, nbits)
			total += nbits
		}
		if err := bw.Close(); err != nil {
			return errors.WithStack(err)
		}
		blocks = append(blocks, block)
	}

	// Classify stream.
	report, err := flacfmt.CheckSubset(flacfmt.Input{Info: info, Headers: hdrs, PartitionOrders: orders})
	if err != nil {
		return errors.WithStack(err)
	}
	if conf.profile == format.Subset {
		if err := report.Strict(); err != nil {
			return errors.WithStack(err)
		}
	}

	// Store Rice coded blocks.
	if !conf.force && osutil.Exists(ricePath) {
		return errors.Errorf("output file %q already present; use -f flag to force overwrite", ricePath)
	}
	f, err := os.Create(ricePath)
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()
	if err := writeRice(f, info, buf.Bytes()); err != nil {
		return errors.WithStack(err)
	}

	// Print summary.
	fmt.Printf("%s: %v\n", wavPath, report.Class)
	for _, v := range report.Violations {
		fmt.Println("   violation:", v)
	}
	for _, advisory := range report.Advisories {
		fmt.Println("   advisory:", advisory)
	}
	pcmBits := uint64(len(samples)) * uint64(info.BitsPerSample)
	fmt.Printf("   residual bits: %d (%.2f%% of %d PCM bits)\n", total, ratio(total, pcmBits), pcmBits)
	if conf.verbose {
		pretty.Print(info)
		for _, block := range blocks {
			pretty.Print(block)
		}
	}
	return f.Close()
}

// decodeWAV returns the interleaved PCM samples and the audio properties of
// the given WAV file.
func decodeWAV(wavPath string) ([]int32, *meta.StreamInfo, error) {
	r, err := os.Open(wavPath)
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}
	defer r.Close()
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, nil, errors.Errorf("invalid WAV file %q", wavPath)
	}
	info := &meta.StreamInfo{
		SampleRate:    dec.SampleRate,
		NChannels:     uint8(dec.NumChans),
		BitsPerSample: uint8(dec.BitDepth),
	}
	if err := format.ValidateChannels(int(dec.NumChans)); err != nil {
		return nil, nil, errors.WithStack(err)
	}
	if err := format.ValidateBitsPerSample(int(dec.BitDepth)); err != nil {
		return nil, nil, errors.WithStack(err)
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, nil, errors.WithStack(err)
	}
	const bufferSize = 1024 * 1024
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: int(dec.NumChans),
			SampleRate:  int(dec.SampleRate),
		},
		Data:           make([]int, bufferSize),
		SourceBitDepth: int(dec.BitDepth),
	}
	var samples []int32
	for !dec.EOF() {
		n, err := dec.PCMBuffer(buf)
		if err != nil {
			return nil, nil, errors.WithStack(err)
		}
		if n == 0 {
			break
		}
		for _, sample := range buf.Data[:n] {
			samples = append(samples, int32(sample))
		}
	}
	// Drop trailing partial inter-channel sample.
	samples = samples[:len(samples)-len(samples)%int(dec.NumChans)]
	return samples, info, nil
}

// writeRice writes the StreamInfo metadata block followed by the Rice coded
// blocks to w.
func writeRice(w io.Writer, info *meta.StreamInfo, blocks []byte) error {
	hdr := &meta.Header{Type: meta.TypeStreamInfo, Length: meta.StreamInfoLength, IsLast: true}
	if err := hdr.Encode(w); err != nil {
		return errors.WithStack(err)
	}
	if err := info.Encode(w); err != nil {
		return errors.WithStack(err)
	}
	if _, err := w.Write(blocks); err != nil {
		return errors.WithStack(err)
	}
	return nil
}

// ratio returns n as a percentage of total.
func ratio(n, total uint64) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(n) / float64(total)
}
