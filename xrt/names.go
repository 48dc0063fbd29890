package xrt

// NumChannels is the number of XRT channels in the calibration file.
const NumChannels = 14

// channelNames maps channel index to canonical name.
var channelNames = [NumChannels]string{
	"Open/Al_mesh",
	"Al_poly/Open",
	"C_poly/Open",
	"Open/Ti_poly",
	"Be_thin/Open",
	"Be_med/Open",
	"Al_med/Open",
	"Open/Al_thick",
	"Open/Be_thick",
	"Al_poly/Al_mesh",
	"Al_poly/Ti_poly",
	"Al_poly/Al_thick",
	"Al_poly/Be_thick",
	"C_poly/Ti_poly",
}

var channelIndex = func() map[string]int {
	m := make(map[string]int, NumChannels)
	for i, name := range channelNames {
		m[name] = i
	}
	return m
}()

// Lookup returns the record index of a canonical channel name.
func Lookup(name string) (int, error) {
	i, ok := channelIndex[name]
	if !ok {
		return 0, &UnknownChannelError{Name: name}
	}
	return i, nil
}

// ChannelNames returns the canonical channel names in index order.
func ChannelNames() []string {
	out := make([]string, NumChannels)
	copy(out, channelNames[:])
	return out
}
